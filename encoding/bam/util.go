package bam

import "github.com/grailbio/hts/sam"

// IsProperPair returns true if each segment of the template is properly
// aligned.
func IsProperPair(record *sam.Record) bool { return record.Flags&sam.ProperPair != 0 }

// IsUnmapped returns true if the record is unmapped.
func IsUnmapped(record *sam.Record) bool { return record.Flags&sam.Unmapped != 0 }

// IsReverse returns true if the record is aligned to the reverse strand.
func IsReverse(record *sam.Record) bool { return record.Flags&sam.Reverse != 0 }

// IsSecondary returns true if the record is a secondary alignment.
func IsSecondary(record *sam.Record) bool { return record.Flags&sam.Secondary != 0 }

// IsQCFail returns true if the record did not pass quality controls.
func IsQCFail(record *sam.Record) bool { return record.Flags&sam.QCFail != 0 }

// IsDuplicate returns true if the record is a PCR or optical duplicate.
func IsDuplicate(record *sam.Record) bool { return record.Flags&sam.Duplicate != 0 }

// IsSupplementary returns true if the record is a supplementary alignment.
func IsSupplementary(record *sam.Record) bool { return record.Flags&sam.Supplementary != 0 }

// IsPrimary returns true if the record is neither secondary nor
// supplementary.
func IsPrimary(record *sam.Record) bool {
	return record.Flags&(sam.Secondary|sam.Supplementary) == 0
}

// SetFlag sets or clears the bits of f on record.
func SetFlag(record *sam.Record, f sam.Flags, on bool) {
	if on {
		record.Flags |= f
	} else {
		record.Flags &^= f
	}
}

// RefByID returns the reference with the given ID in h. It returns nil if id
// is negative (unmapped) or not an ID of h.
func RefByID(h *sam.Header, id int) *sam.Reference {
	refs := h.Refs()
	if id < 0 || id >= len(refs) {
		return nil
	}
	return refs[id]
}
