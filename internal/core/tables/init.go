// Package tables registers all table definitions with the core registry.
// Import this package to ensure all tables are registered.
package tables

// This file exists to provide a single import point.
// Each group file uses init() to register its tables.

import "github.com/JonMunkholm/bubblemigrate/internal/core"

// Placeholder values backfilled into empty reference columns before their
// identifiers are derived. Each one stands for "no related record".
const (
	DefaultLabel           = "0000000000000x000000000000000001"
	DefaultOwnershipShared = "0000000000000x000000000000000002"
	DefaultLstnScheduled   = "0000000000000x000000000000000003"
	DefaultLstnPlus        = "0000000000000x000000000000000004"
	DefaultPlaylistChannel = "0000000000000x000000000000000005"
	DefaultPlaylistCreator = "0000000000000x000000000000000006"
	DefaultContract        = "0000000000000x000000000000000007"
	DefaultOwnershipUser   = "0000000000000x000000000000000008"
)

// uniqueID is the identifier column every table derives.
var uniqueID = core.IDColumn{Target: "unique_id", Source: "unique id"}

// registerSimple registers a kind that only derives unique_id.
func registerSimple(kind, group, label string, attachments ...core.AttachmentSpec) {
	core.Register(core.TableDefinition{
		Info:            core.TableInfo{Kind: kind, Group: group, Label: label},
		RequiredColumns: []string{uniqueID.Source},
		IDColumns:       []core.IDColumn{uniqueID},
		Attachments:     attachments,
	})
}
