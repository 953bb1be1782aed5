package workspace

import (
	"testing"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// Keys are deliberately out of lexical order to prove order is preserved.
const legacyBlob = `{
  "project-2": {
    "name": "Legacy",
    "folders": {
      "folder-9": {
        "name": "Main",
        "files": {
          "file-5": {"name": "index.html", "type": "html", "content": "<h1>old</h1>", "isUploaded": false},
          "file-1": {"name": "logo.png", "type": "png", "content": "data:image/png;base64,AA==", "isUploaded": true},
          "file-3": {"name": "data.bin", "type": "binary", "content": ""}
        }
      },
      "folder-1": {"name": "empty", "files": {}}
    }
  },
  "project-1": {"name": "Second", "folders": {"folder-2": {"name": "Main", "files": {}}}}
}`

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tree := DefaultTree()
	tree.Projects[0].Folders[0].Files[1].IsUploaded = true
	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := Encode(tree, savedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(SchemaVersion), gjson.GetBytes(data, "version").Int())
	assert.Equal(t, "html", gjson.GetBytes(data, "tree.projects.0.folders.0.files.0.type").String())

	dec, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, dec.Version)
	assert.False(t, dec.Migrated)
	assert.True(t, savedAt.Equal(dec.SavedAt))
	assert.Equal(t, tree, dec.Tree)
	assert.False(t, Repair(dec.Tree), "a valid tree needs no repair")
}

func TestDecodeLegacyPreservesOrder(t *testing.T) {
	dec, err := Decode([]byte(legacyBlob))
	require.NoError(t, err)
	assert.True(t, dec.Migrated)
	assert.Equal(t, 0, dec.Version)

	tree := dec.Tree
	require.Len(t, tree.Projects, 2)
	assert.Equal(t, "project-2", tree.Projects[0].ID)
	assert.Equal(t, "project-1", tree.Projects[1].ID)

	folders := tree.Projects[0].Folders
	require.Len(t, folders, 2)
	assert.Equal(t, "folder-9", folders[0].ID)
	assert.Equal(t, "folder-1", folders[1].ID)

	files := folders[0].Files
	require.Len(t, files, 3)
	assert.Equal(t, []string{"file-5", "file-1", "file-3"}, []string{files[0].ID, files[1].ID, files[2].ID})
	assert.Equal(t, filetype.HTML, files[0].Kind)
	assert.Equal(t, filetype.PNG, files[1].Kind)
	assert.True(t, files[1].IsUploaded)
	assert.Equal(t, filetype.Other, files[2].Kind)

	// no selection in the legacy layout: repair derives it
	assert.True(t, Repair(tree))
	assert.Equal(t, "project-2", tree.CurrentProjectID)
	assert.Equal(t, "folder-9", tree.CurrentFolderID)
	assert.Equal(t, "file-5", tree.CurrentFileID)
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{"version":`, ErrCorrupt},
		{"array", `[1, 2]`, ErrCorrupt},
		{"string version", `{"version": "1", "tree": {}}`, ErrCorrupt},
		{"future version", `{"version": 2, "tree": {"projects": []}}`, ErrUnsupportedVersion},
		{"legacy project without folders", `{"p": {"name": "x"}}`, ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRepairDanglingPointers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tree)
		check  func(*testing.T, *Tree)
	}{
		{
			name:   "unknown project",
			mutate: func(tr *Tree) { tr.CurrentProjectID = "project_gone" },
			check: func(t *testing.T, tr *Tree) {
				assert.Equal(t, tr.Projects[0].ID, tr.CurrentProjectID)
				assert.Equal(t, tr.Projects[0].Folders[0].Files[0].ID, tr.CurrentFileID)
			},
		},
		{
			name:   "unknown folder",
			mutate: func(tr *Tree) { tr.CurrentFolderID = "folder_gone" },
			check: func(t *testing.T, tr *Tree) {
				assert.Equal(t, tr.Projects[0].Folders[0].ID, tr.CurrentFolderID)
			},
		},
		{
			name:   "unknown file",
			mutate: func(tr *Tree) { tr.CurrentFileID = "file_gone" },
			check: func(t *testing.T, tr *Tree) {
				assert.Equal(t, tr.Projects[0].Folders[0].Files[0].ID, tr.CurrentFileID)
			},
		},
		{
			name:   "pending folder elsewhere",
			mutate: func(tr *Tree) { tr.PendingUploadFolderID = "folder_gone" },
			check: func(t *testing.T, tr *Tree) {
				assert.Empty(t, tr.PendingUploadFolderID)
			},
		},
		{
			name: "nil entries and blank ids",
			mutate: func(tr *Tree) {
				tr.Projects = append(tr.Projects, nil)
				tr.Projects[0].Folders[0].Files = append(tr.Projects[0].Folders[0].Files, nil, &File{Name: "x", Kind: filetype.Kind(99)})
			},
			check: func(t *testing.T, tr *Tree) {
				require.Len(t, tr.Projects, 1)
				files := tr.Projects[0].Folders[0].Files
				require.Len(t, files, 4)
				assert.NotEmpty(t, files[3].ID)
				assert.Equal(t, filetype.Other, files[3].Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := DefaultTree()
			tt.mutate(tree)
			assert.True(t, Repair(tree))
			tt.check(t, tree)
		})
	}
}

func TestRepairEmptyTree(t *testing.T) {
	tree := &Tree{CurrentProjectID: "project_gone", CurrentFileID: "file_gone"}
	assert.True(t, Repair(tree))
	assert.Empty(t, tree.CurrentProjectID)
	assert.Empty(t, tree.CurrentFolderID)
	assert.Empty(t, tree.CurrentFileID)
}
