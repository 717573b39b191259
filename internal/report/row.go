package report

import (
	"encoding/json"
)

// Field keys, named after the columns returned by sp_PaletteEtat.
const (
	KeyVersement      = "numver"
	KeyProducer       = "refpro"
	KeyPalette        = "numpal"
	KeyDepartureDate  = "dtedep"
	KeyLine           = "ligne"
	KeyPackaging      = "emballage"
	KeyLot            = "numlot"
	KeyBrand          = "marque"
	KeyCaliber        = "calibr"
	KeyFruitCount     = "nbrfru"
	KeyCategory       = "nomcat"
	KeyPackageCount   = "colis"
	KeyGrossWeight    = "pdsbru"
	KeyChosenWeight   = "pdsChoosen"
	KeyQualityControl = "bdq"
	KeyDossier        = "dossier"
	KeyTransport      = "transport"
	KeyClient         = "nomCl"
	KeyOrder          = "numpo"
)

// keyAliases maps column names used by older procedure versions.
var keyAliases = map[string]string{
	"nbcolis": KeyPackageCount,
	"datepal": KeyDepartureDate,
	"dTeDep":  KeyDepartureDate,
	"client":  KeyClient,
}

// Row is one palette shipment record. Rows have no identity beyond their
// position in the slice handed to the paginator.
type Row struct {
	Versement      Value `json:"numver"`
	Producer       Value `json:"refpro"`
	Palette        Value `json:"numpal"`
	DepartureDate  Value `json:"dtedep"`
	Line           Value `json:"ligne"`
	Packaging      Value `json:"emballage"`
	Lot            Value `json:"numlot"`
	Brand          Value `json:"marque"`
	Caliber        Value `json:"calibr"`
	FruitCount     Value `json:"nbrfru"`
	Category       Value `json:"nomcat"`
	PackageCount   Value `json:"colis"`
	GrossWeight    Value `json:"pdsbru"`
	ChosenWeight   Value `json:"pdsChoosen"`
	QualityControl Value `json:"bdq"`
	Dossier        Value `json:"dossier"`
	Transport      Value `json:"transport"`
	Client         Value `json:"nomCl"`
	Order          Value `json:"numpo"`
}

// field returns a pointer to the field stored under key, or nil.
func (r *Row) field(key string) *Value {
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	switch key {
	case KeyVersement:
		return &r.Versement
	case KeyProducer:
		return &r.Producer
	case KeyPalette:
		return &r.Palette
	case KeyDepartureDate:
		return &r.DepartureDate
	case KeyLine:
		return &r.Line
	case KeyPackaging:
		return &r.Packaging
	case KeyLot:
		return &r.Lot
	case KeyBrand:
		return &r.Brand
	case KeyCaliber:
		return &r.Caliber
	case KeyFruitCount:
		return &r.FruitCount
	case KeyCategory:
		return &r.Category
	case KeyPackageCount:
		return &r.PackageCount
	case KeyGrossWeight:
		return &r.GrossWeight
	case KeyChosenWeight:
		return &r.ChosenWeight
	case KeyQualityControl:
		return &r.QualityControl
	case KeyDossier:
		return &r.Dossier
	case KeyTransport:
		return &r.Transport
	case KeyClient:
		return &r.Client
	case KeyOrder:
		return &r.Order
	}
	return nil
}

// Field returns the value stored under a column key. Unknown keys yield
// Null.
func (r Row) Field(key string) Value {
	if f := r.field(key); f != nil {
		return *f
	}
	return Null
}

// Set stores v under key and reports whether the key is known.
func (r *Row) Set(key string, v any) bool {
	f := r.field(key)
	if f == nil {
		return false
	}
	*f = V(v)
	return true
}

// KnownKey reports whether key names a row field.
func KnownKey(key string) bool {
	var r Row
	return r.field(key) != nil
}

// UnmarshalJSON decodes a result-set record, accepting the alias column
// names. Unknown columns are ignored. Canonical names win over aliases.
func (r *Row) UnmarshalJSON(data []byte) error {
	var fields map[string]Value
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Row{}
	for key, v := range fields {
		if _, alias := keyAliases[key]; alias {
			continue
		}
		if f := r.field(key); f != nil {
			*f = v
		}
	}
	for key, v := range fields {
		if canonical, alias := keyAliases[key]; alias {
			if _, present := fields[canonical]; present {
				continue
			}
			*r.field(key) = v
		}
	}
	return nil
}
