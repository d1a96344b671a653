package output

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/genesis"
)

func samplePlan() []PlanEntry {
	var owner [32]byte
	batch := []calls.Call{
		calls.Sudo(calls.AssetsForceCreate(100, owner, true, 1).WithNote("KSM")),
		calls.AssetsMint(100, owner, big.NewInt(1)).WithNote("to alice"),
	}
	return Plan("para", batch)
}

func TestPlan_UnwrapsOrigins(t *testing.T) {
	entries := samplePlan()
	require.Len(t, entries, 2)

	assert.Equal(t, PlanEntry{Chain: "para", Index: 0, Origin: "root", Call: "Assets.force_create", Note: "KSM"}, entries[0])
	assert.Equal(t, "signed", entries[1].Origin)
	assert.Equal(t, "Assets.mint", entries[1].Call)
}

func TestFormatter_PrintPlanTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter("", &buf).PrintPlan(samplePlan()))

	out := buf.String()
	assert.Contains(t, out, "ORIGIN")
	assert.Contains(t, out, "Assets.force_create")
	assert.Contains(t, out, "to alice")
}

func TestFormatter_PrintPlanJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter(FormatJSON, &buf).PrintPlan(samplePlan()))

	var decoded []PlanEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, samplePlan(), decoded)
}

func TestFormatter_PrintReport(t *testing.T) {
	report := &genesis.Report{
		RunID: "run",
		Steps: []genesis.Step{
			{Chain: "relay", Call: "Utility.batch_all (4 calls)", Calls: 4, Receipt: &chain.Receipt{
				BlockHash:      "0x" + strings.Repeat("ab", 32),
				ExtrinsicIndex: 2,
			}},
			{Chain: "para", Call: "Utility.batch_all", Calls: 60, Hex: "0x1234"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter(FormatTable, &buf).PrintReport(report))
	out := buf.String()
	assert.Contains(t, out, "0xabababab...ababab")
	assert.Contains(t, out, "0x1234")

	buf.Reset()
	require.NoError(t, NewFormatterWithWriter(FormatYAML, &buf).PrintReport(report))
	out = buf.String()
	assert.Contains(t, out, "runId: run")
	assert.Contains(t, out, "dryRun: false")
	assert.Contains(t, out, "extrinsicIndex: 2")
	assert.Regexp(t, `blockHash: "?0x(ab){32}`, out)
	assert.NotContains(t, out, "extrinsicindex")
	assert.NotContains(t, out, "receipt: null")
}

func TestFormatter_PrintGenericSorted(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"zeta": "1", "alpha": "2"}
	require.NoError(t, NewFormatterWithWriter(FormatTable, &buf).Print(data))

	out := buf.String()
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "zeta"))
}

func TestFormatter_Unsupported(t *testing.T) {
	f := NewFormatterWithWriter("xml", &bytes.Buffer{})
	assert.Error(t, f.Validate())
	assert.Error(t, f.Print(1))
	assert.Error(t, f.PrintPlan(nil))
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, "heiko-dev", &genesis.Report{
		RunID:    "abc",
		DryRun:   true,
		Duration: 1500 * time.Millisecond,
		Steps:    []genesis.Step{{Chain: "relay"}, {Chain: "relay"}, {Chain: "para"}},
	})

	out := buf.String()
	assert.Contains(t, out, "heiko-dev")
	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "relay extrinsics: 2")
	assert.Contains(t, out, "1.5s")
}
