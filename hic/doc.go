// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*Package hic filters two single-end alignment files produced from a
  proximity-ligation (Hi-C) library and merges them into one paired-end BAM.

  Each read of a Hi-C pair may span a ligation junction, so the aligner
  often reports it as a primary plus a supplementary alignment. Only the
  alignment that maps the 5' end of the read is informative about the
  ligated fragment, so Filter keeps, for every read name, the single
  record whose 5' end is an alignment match, and drops names that are
  ambiguous. Filter runs once over the forward file and once over the
  reverse file, writing each result to a scratch BAM.

  Merge then walks the two scratch files in lock step. Records at the same
  position in both files are expected to share a name; they are rewritten
  as read 1 and read 2 of a pair, with mate coordinates, mate strand and
  template length computed from each other. Pairs whose names disagree are
  counted and skipped.

  Run chains the two stages and removes the scratch files on every exit
  path. A failed run leaves no output file behind.
*/
package hic
