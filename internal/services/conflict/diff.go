package conflict

import (
	"strconv"

	"github.com/tablero-dev/tablero/internal/models"
)

// diffSnapshots compares the local and remote snapshots field by field
// against the base revision the client edited from. A field is overlapping
// when both sides moved it away from the base to different values; those are
// the diffs a human genuinely has to arbitrate.
func diffSnapshots(base, local, remote models.CardSnapshot) []models.FieldDiff {
	var diffs []models.FieldDiff

	add := func(field, baseV, localV, remoteV string) {
		if localV == remoteV {
			return
		}
		diffs = append(diffs, models.FieldDiff{
			Field:       field,
			LocalValue:  localV,
			RemoteValue: remoteV,
			Overlapping: localV != baseV && remoteV != baseV,
		})
	}

	add("title", base.Title, local.Title, remote.Title)
	add("description", base.Description, local.Description, remote.Description)
	add("completed",
		strconv.FormatBool(base.Completed),
		strconv.FormatBool(local.Completed),
		strconv.FormatBool(remote.Completed))

	return diffs
}
