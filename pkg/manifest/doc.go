// Package manifest flattens a pack manifest into an ordered index of pack
// definitions and their dependency edges.
//
// A manifest looks like:
//
//	manifest:            # optional wrapper
//	  packs:
//	    core:
//	      version: 1.2.0
//	      pages: [Main_Page, Help]
//	    extras:
//	      version: 0.3.0
//	      depends_on: [core]
//	      pages: [Extras]
//
// Pack order in the index is the order packs appear in the document. A
// missing packs key yields an empty index. Dependencies that name packs the
// manifest does not define are kept on the definition but every traversal
// ignores them.
package manifest
