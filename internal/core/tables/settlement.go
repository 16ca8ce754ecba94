package tables

import "github.com/JonMunkholm/bubblemigrate/internal/core"

func init() {
	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: "settlement_melon", Group: "Settlement", Label: "Melon"},
		RequiredColumns: []string{"unique id", "ownershipuser"},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "ownership_user", Source: "ownershipuser"},
		},
		Defaults: map[string]string{"ownershipuser": DefaultOwnershipUser},
	})

	registerSimple("settlement_vibe", "Settlement", "Vibe")
	registerSimple("settlement_genie", "Settlement", "Genie")
	registerSimple("settlement_flo", "Settlement", "FLO")
	registerSimple("settlement_youtube", "Settlement", "YouTube")
	registerSimple("settlement_global", "Settlement", "Global")
}
