// Package workspace provides the project tree and its state manager.
//
// The tree is Project → Folder → File with three selection pointers
// (current project, folder, file) and an optional pending upload folder.
// Every pointer either resolves or is empty.
//
// Components:
//   - Manager: owns the tree, applies operations, persists after each one
//   - Codec: versioned JSON envelope, legacy migration, pointer repair
//   - Templates: first-run workspace and per-kind boilerplate
//   - Events: change notifications published after each commit
//
// Selection Cascade:
//   - Switching project selects its first folder and that folder's first file
//   - Switching folder selects its first file, or none
//   - Deleting the selected item selects the first remaining sibling
//
// Persistence:
//   - The whole tree is saved under one key after every successful mutation
//   - Save failures are logged and counted, never returned
//   - Absent, corrupt or unknown-version data loads as the default tree
//
// Example Usage:
//
//	mgr := workspace.Open(ctx, storage.NewAdapter(backend, ""), logger)
//	id, err := mgr.CreateProject("Portfolio")
//	mgr.SwitchProject(id)
package workspace
