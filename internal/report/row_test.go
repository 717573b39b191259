package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowUnmarshalJSON(t *testing.T) {
	data := `{
		"numver": 1204, "refpro": "P17", "numpal": "000451",
		"dtedep": "12/03/2025", "nbrfru": 88, "colis": "120",
		"pdsbru": "1 020,5", "pdsChoosen": 980.25, "bdq": true,
		"nomCl": "PRIMEUR SA", "unexpected": "ignored"
	}`
	var row Row
	require.NoError(t, json.Unmarshal([]byte(data), &row))

	assert.Equal(t, "1204", row.Versement.String())
	assert.Equal(t, "000451", row.Palette.String())
	assert.Equal(t, "12/03/2025", row.DepartureDate.String())
	assert.Equal(t, "1020.5", row.GrossWeight.Decimal().String())
	assert.Equal(t, "PRIMEUR SA", row.Field(KeyClient).String())
	assert.True(t, row.Order.IsNull())
}

func TestRowUnmarshalJSON_Aliases(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"nbcolis": 40, "datepal": "2025-03-12", "client": "EXPORT"}`), &row))
	assert.Equal(t, "40", row.PackageCount.String())
	assert.Equal(t, "2025-03-12", row.DepartureDate.String())
	assert.Equal(t, "EXPORT", row.Client.String())

	require.NoError(t, json.Unmarshal([]byte(`{"colis": 12, "nbcolis": 40}`), &row))
	assert.Equal(t, "12", row.PackageCount.String(), "canonical name wins over alias")
}

func TestRowFieldAndSet(t *testing.T) {
	var row Row
	assert.True(t, row.Set(KeyBrand, "AZURA"))
	assert.True(t, row.Set("nbcolis", 7))
	assert.False(t, row.Set("nope", 1))

	assert.Equal(t, "AZURA", row.Field(KeyBrand).String())
	assert.Equal(t, "7", row.Field(KeyPackageCount).String())
	assert.True(t, row.Field("nope").IsNull())

	assert.True(t, KnownKey(KeyOrder))
	assert.False(t, KnownKey("numpal2"))
}

func TestColumnValidate(t *testing.T) {
	ok := Column{Header: "Poids", Width: 45, Key: KeyChosenWeight, Format: FormatNumber, Aggregate: AggregateSum}.Normalize()
	require.NoError(t, ok.Validate())
	assert.Equal(t, AlignLeft, ok.Align)

	bad := []Column{
		{Header: "x", Width: 0, Key: KeyBrand},
		{Header: "x", Width: 10, Key: "nope"},
		{Header: "x", Width: 10, Key: KeyBrand, Align: "justify"},
		{Header: "x", Width: 10, Key: KeyBrand, Format: "money"},
		{Header: "x", Width: 10, Key: KeyBrand, Aggregate: AggregateSum},
		{Header: "x", Width: 10, Key: KeyBrand, Aggregate: "avg"},
		{Header: "x", Width: 10, Key: KeyGrossWeight, Decimals: 9},
	}
	for _, c := range bad {
		assert.Error(t, c.Normalize().Validate(), "%+v", c)
	}
}

func TestColumnHeaderLines(t *testing.T) {
	assert.Equal(t, []string{"Export", "Com."}, Column{Header: "Export\nCom."}.HeaderLines())
	assert.Equal(t, []string{"Colis"}, Column{Header: "Colis"}.HeaderLines())
}

func TestPeriodLabels(t *testing.T) {
	p := Period{Start: "01/03/2025"}
	assert.Equal(t, "01/03/2025", p.StartLabel())
	assert.Equal(t, "N/A", p.EndLabel())
}
