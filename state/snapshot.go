// Package state persists the per-asset strategy context between process
// restarts. The on-disk layout keeps the historical schema: one top-level
// key per symbol plus the "totais" aggregate block, with a schema version
// alongside. Loading an absent, malformed or incompatible file yields a
// well-defined empty snapshot instead of improvising field by field.
package state

import "encoding/json"

// CurrentVersion is the schema version written by this build. Files
// without a version key predate versioning and are read as-is.
const CurrentVersion = 1

const (
	totalsKey  = "totais"
	versionKey = "schema_version"
)

// AssetRecord is the durable per-symbol strategy context.
type AssetRecord struct {
	Historico        []float64 `json:"historico"`
	Suporte          float64   `json:"suporte"`
	Resistencia      float64   `json:"resistencia"`
	PrecoBase        float64   `json:"preco_base"`
	TrailingStop     *float64  `json:"trailing_stop"`
	GanhosAcumulados float64   `json:"ganhos_acumulados"`
	TotalCompras     int       `json:"total_compras"`
	TotalVendas      int       `json:"total_vendas"`
}

// Totals aggregates realized results across every asset.
type Totals struct {
	GanhosAcumulados float64 `json:"ganhos_acumulados"`
	TotalCompras     int     `json:"total_compras"`
	TotalVendas      int     `json:"total_vendas"`
}

// Snapshot is the full durable state: one record per symbol plus the
// cross-asset totals.
type Snapshot struct {
	Version int
	Assets  map[string]AssetRecord
	Totals  Totals
}

// NewSnapshot returns the empty snapshot used when no durable state
// exists yet.
func NewSnapshot() Snapshot {
	return Snapshot{
		Version: CurrentVersion,
		Assets:  make(map[string]AssetRecord),
	}
}

// MarshalJSON flattens the snapshot into the historical layout: symbols at
// the top level next to the "totais" block and the schema version.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Assets)+2)
	for symbol, rec := range s.Assets {
		doc[symbol] = rec
	}
	doc[totalsKey] = s.Totals
	doc[versionKey] = s.Version
	return json.Marshal(doc)
}

// UnmarshalJSON restores a snapshot from the flattened layout. Unknown
// top-level keys are treated as asset records.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	out := NewSnapshot()
	if raw, ok := doc[versionKey]; ok {
		if err := json.Unmarshal(raw, &out.Version); err != nil {
			return err
		}
	}
	if raw, ok := doc[totalsKey]; ok {
		if err := json.Unmarshal(raw, &out.Totals); err != nil {
			return err
		}
	}
	for key, raw := range doc {
		if key == totalsKey || key == versionKey {
			continue
		}
		var rec AssetRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		out.Assets[key] = rec
	}

	*s = out
	return nil
}
