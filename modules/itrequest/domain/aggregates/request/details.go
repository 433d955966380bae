package request

import (
	"encoding/json"
	"fmt"
)

// Details is the type-specific payload of a request. Exactly one concrete
// variant exists per Type.
type Details interface {
	RequestType() Type
}

type AssetCategory string

const (
	AssetCategoryLaptop   AssetCategory = "laptop"
	AssetCategoryMonitor  AssetCategory = "monitor"
	AssetCategoryKeyboard AssetCategory = "keyboard"
	AssetCategoryMouse    AssetCategory = "mouse"
	AssetCategoryServer   AssetCategory = "server"
	AssetCategoryOther    AssetCategory = "other"
)

type AssetReason string

const (
	AssetReasonNewHire     AssetReason = "new_hire"
	AssetReasonReplacement AssetReason = "replacement"
	AssetReasonGrowth      AssetReason = "growth"
	AssetReasonFailure     AssetReason = "failure"
)

type AssetDetails struct {
	Category AssetCategory `json:"category"`
	Quantity int           `json:"quantity"`
	Reason   AssetReason   `json:"reason"`
	Spec     string        `json:"spec,omitempty"`
}

func (AssetDetails) RequestType() Type { return TypeAsset }

type SoftwareAction string

const (
	SoftwareActionInstall SoftwareAction = "install"
	SoftwareActionAccess  SoftwareAction = "access"
)

type AccessProfile string

const (
	AccessProfileBasic    AccessProfile = "basic"
	AccessProfileStandard AccessProfile = "standard"
	AccessProfileAdmin    AccessProfile = "admin"
)

type AccessValidity string

const (
	AccessValidityTemporary AccessValidity = "temporary"
	AccessValidityPermanent AccessValidity = "permanent"
)

type SoftwareDetails struct {
	Name           string         `json:"name"`
	Action         SoftwareAction `json:"action"`
	AccessProfile  AccessProfile  `json:"access_profile"`
	AccessValidity AccessValidity `json:"access_validity"`
	BusinessReason string         `json:"business_reason"`
}

func (SoftwareDetails) RequestType() Type { return TypeSoftware }

type SupportCategory string

const (
	SupportCategoryEmail    SupportCategory = "email"
	SupportCategoryNetwork  SupportCategory = "network"
	SupportCategoryPrinter  SupportCategory = "printer"
	SupportCategoryHardware SupportCategory = "hardware"
	SupportCategorySoftware SupportCategory = "software"
	SupportCategoryOther    SupportCategory = "other"
)

type SupportImpact string

const (
	SupportImpactBlocker  SupportImpact = "blocker"
	SupportImpactDegraded SupportImpact = "degraded"
	SupportImpactMinor    SupportImpact = "minor"
)

type SupportDetails struct {
	Category SupportCategory `json:"category"`
	Impact   SupportImpact   `json:"impact"`
}

func (SupportDetails) RequestType() Type { return TypeSupport }

// EmptyDetails returns the zero payload variant for typ.
func EmptyDetails(typ Type) (Details, error) {
	switch typ {
	case TypeAsset:
		return AssetDetails{}, nil
	case TypeSoftware:
		return SoftwareDetails{}, nil
	case TypeSupport:
		return SupportDetails{}, nil
	}
	return nil, fmt.Errorf("unknown request type %q", typ)
}

func MarshalDetails(d Details) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// UnmarshalDetails decodes raw into the payload variant matching typ.
func UnmarshalDetails(typ Type, raw []byte) (Details, error) {
	if len(raw) == 0 {
		return EmptyDetails(typ)
	}
	switch typ {
	case TypeAsset:
		var d AssetDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeSoftware:
		var d SoftwareDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeSupport:
		var d SupportDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown request type %q", typ)
}
