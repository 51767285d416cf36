// Package installed answers what is already installed for a ref: the packs
// with their versions and, per pack, the pages with their final titles.
//
// FileRegistry reads a TOML document of the form:
//
//	[[refs]]
//	id = "main"
//
//	  [[refs.packs]]
//	  id = "main:core"
//	  name = "core"
//	  version = "1.0.0"
//
//	    [[refs.packs.pages]]
//	    name = "Main_Page"
//	    final_title = "Core/Main_Page"
//
// A missing file is an empty registry.
package installed
