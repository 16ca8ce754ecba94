package tables

import "github.com/JonMunkholm/bubblemigrate/internal/core"

func init() {
	registerMusician()
	registerAlbum()
	registerTrack()
	registerOwnership()
}

func registerMusician() {
	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: "musician", Group: "Catalog", Label: "Musicians"},
		RequiredColumns: []string{"unique id", "label"},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "label_formatted", Source: "label"},
		},
		Defaults: map[string]string{"label": DefaultLabel},
		Attachments: []core.AttachmentSpec{
			{Column: "imageprofile", Bucket: "image", Path: "musician"},
			{Column: "imageverification", Bucket: "image", Path: "musician"},
		},
	})
}

func registerAlbum() {
	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: "album", Group: "Catalog", Label: "Albums"},
		RequiredColumns: []string{"unique id", "label"},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "label_formatted", Source: "label"},
		},
		Defaults: map[string]string{"label": DefaultLabel},
		Attachments: []core.AttachmentSpec{
			{
				Column: "cover",
				Bucket: "image",
				Path:   "album",
				Naming: core.FieldPattern{Format: "%s_IMG.jpg", Fields: []string{"codealbum"}},
			},
		},
	})
}

func registerTrack() {
	trackFields := []string{"trackcode", "tracknumber"}

	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: "track", Group: "Catalog", Label: "Tracks"},
		RequiredColumns: []string{"unique id", "ownershipshared"},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "ownership_shared", Source: "ownershipshared"},
		},
		Defaults: map[string]string{"ownershipshared": DefaultOwnershipShared},
		Attachments: []core.AttachmentSpec{
			{
				Column: "mp3 (ar)",
				Bucket: "track",
				Path:   "mp3",
				Naming: core.FieldPattern{Format: "%s-%s.mp3", Fields: trackFields},
			},
			{
				Column: "wav (ar)",
				Bucket: "track",
				Path:   "wav",
				Naming: core.FieldPattern{Format: "%s-%s.wav", Fields: trackFields},
			},
		},
	})
}

func registerOwnership() {
	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: "ownership", Group: "Catalog", Label: "Ownership"},
		RequiredColumns: []string{"unique id", "ownershiplabel"},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "ownership_label", Source: "ownershiplabel"},
		},
		Defaults: map[string]string{"ownershiplabel": DefaultLabel},
	})
}
