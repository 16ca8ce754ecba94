package tables

import "github.com/JonMunkholm/bubblemigrate/internal/core"

func init() {
	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: "shorts_channels", Group: "Shorts", Label: "Channels"},
		RequiredColumns: []string{"unique id", "contract"},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "contract_formatted", Source: "contract"},
		},
		Defaults: map[string]string{"contract": DefaultContract},
		Attachments: []core.AttachmentSpec{
			{Column: "thumbnails", Bucket: "image", Path: "shorts-channel"},
		},
	})

	registerSimple("shorts_contracts", "Shorts", "Contracts",
		core.AttachmentSpec{Column: "contractfile", Bucket: "contract", Path: "contract"},
	)
	registerSimple("shorts_licensed_video", "Shorts", "Licensed Videos",
		core.AttachmentSpec{Column: "thumbnails", Bucket: "image", Path: "shorts-video"},
	)
	registerSimple("shorts_permissionvideo", "Shorts", "Permission Videos")
}
