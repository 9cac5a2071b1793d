package importer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
)

func TestDedupGate_Admit(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	stored := ledger.NewKey("1234", 5, day)

	gate := importer.NewDedupGate(map[ledger.Key]struct{}{stored: {}})

	assert.Equal(t, importer.DuplicateStored, gate.Admit(ledger.NewKey("12-34", 5, day)))
	assert.Equal(t, importer.Admitted, gate.Admit(ledger.NewKey("1234", 6, day)))
	assert.Equal(t, importer.DuplicateBatch, gate.Admit(ledger.NewKey("1234", 6, day)))
	assert.Equal(t, importer.Admitted, gate.Admit(ledger.NewKey("1234", 6, day.AddDate(0, 0, 1))))

	assert.False(t, importer.Admitted.Duplicate())
	assert.True(t, importer.DuplicateBatch.Duplicate())
}
