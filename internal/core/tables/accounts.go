package tables

import "github.com/JonMunkholm/bubblemigrate/internal/core"

func init() {
	registerSimple("user", "Accounts", "Users",
		core.AttachmentSpec{Column: "imgprofile", Bucket: "profile-image", Path: "profile-image"},
		core.AttachmentSpec{Column: "businessbankaccountfile", Bucket: "business", Path: "business"},
		core.AttachmentSpec{Column: "businessreg-document", Bucket: "business", Path: "business"},
	)
	registerSimple("label", "Accounts", "Labels",
		core.AttachmentSpec{Column: "logo", Bucket: "image", Path: "label"},
	)
}
