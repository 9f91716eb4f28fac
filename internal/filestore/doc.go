// Package filestore implements the repository capabilities on the local
// filesystem.
//
// Layout, relative to the project root:
//
//	fragments/<name>.md        project fragments (FragmentStore)
//	~/.loadout/fragments/*.md  global fragments (FragmentStore)
//	.loadouts/<name>.json      loadout records (LoadoutStore)
//	.loadout.json              application state (StateStore)
//	CLAUDE.md, AGENTS.md       output files (FileWriter)
//
// Every write goes through a temp file in the target directory followed by
// a rename, so readers never observe a half-written record or output file.
// Records are validated against the embedded CUE schema before decoding.
package filestore
