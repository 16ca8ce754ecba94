package tables

import "github.com/JonMunkholm/bubblemigrate/internal/core"

func init() {
	registerSimple("payout_buyer", "Payout", "Buyers")

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Kind: "payout_creator", Group: "Payout", Label: "Creators"},
		RequiredColumns: []string{
			"unique id",
			"[lstn] scheduled",
			"lstnplus",
			"playlist channel",
			"playlist creator",
		},
		IDColumns: []core.IDColumn{
			uniqueID,
			{Target: "lstn_scheduled", Source: "[lstn] scheduled"},
			{Target: "lstnplus_formatted", Source: "lstnplus"},
			{Target: "playlist_channel", Source: "playlist channel"},
			{Target: "playlist_creator", Source: "playlist creator"},
		},
		Defaults: map[string]string{
			"[lstn] scheduled": DefaultLstnScheduled,
			"lstnplus":         DefaultLstnPlus,
			"playlist channel": DefaultPlaylistChannel,
			"playlist creator": DefaultPlaylistCreator,
		},
	})
}
