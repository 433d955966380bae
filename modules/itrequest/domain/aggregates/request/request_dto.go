package request

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/constants"
	"github.com/mexilacteos/itdesk/pkg/serrors"
)

// defaultLeadTime is how far out the required-by date lands when the
// requester leaves it blank.
const defaultLeadTime = 7 * 24 * time.Hour

type CreateDTO struct {
	Type         string     `json:"request_type" validate:"required,oneof=asset software support"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	EmployeeID   uuid.UUID  `json:"employee_id" validate:"required"`
	Description  string     `json:"description"`
	DateRequired *time.Time `json:"date_required,omitempty"`

	Asset    *AssetDetails    `json:"asset,omitempty"`
	Software *SoftwareDetails `json:"software,omitempty"`
	Support  *SupportDetails  `json:"support,omitempty"`
}

func (d *CreateDTO) Normalize() {
	d.Type = strings.TrimSpace(d.Type)
	d.Priority = strings.TrimSpace(d.Priority)
	d.Description = strings.TrimSpace(d.Description)
	if d.Type == "" {
		d.Type = string(TypeSupport)
	}
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// ToEntity builds the draft request. The folio must already be allocated.
func (d *CreateDTO) ToEntity(folio string, now time.Time) (Request, error) {
	typ := Type(d.Type)
	entity := New(folio, typ, d.EmployeeID)
	entity.Description = d.Description

	if d.Priority != "" {
		entity.Priority = Priority(d.Priority)
	}
	if d.DateRequired != nil {
		entity.DateRequired = *d.DateRequired
	} else {
		entity.DateRequired = now.Add(defaultLeadTime)
	}

	switch typ {
	case TypeAsset:
		if d.Asset != nil {
			entity.Details = *d.Asset
		}
	case TypeSoftware:
		if d.Software != nil {
			entity.Details = *d.Software
		}
	case TypeSupport:
		if d.Support != nil {
			entity.Details = *d.Support
		}
	}
	if entity.Details == nil {
		details, err := EmptyDetails(typ)
		if err != nil {
			return Request{}, err
		}
		entity.Details = details
	}
	return entity, nil
}

type UpdateDTO struct {
	Type         *string    `json:"request_type,omitempty" validate:"omitempty,oneof=asset software support"`
	Priority     *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	EmployeeID   *uuid.UUID `json:"employee_id,omitempty"`
	Description  *string    `json:"description,omitempty"`
	DateRequired *time.Time `json:"date_required,omitempty"`

	Asset    *AssetDetails    `json:"asset,omitempty"`
	Software *SoftwareDetails `json:"software,omitempty"`
	Support  *SupportDetails  `json:"support,omitempty"`

	AssignedAgent *uuid.UUID `json:"assigned_agent,omitempty"`
	RejectReason  *string    `json:"reject_reason,omitempty"`
	Resolution    *string    `json:"resolution,omitempty"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// ToPatch translates the DTO into a guarded field patch. At most one payload
// variant may be present.
func (d *UpdateDTO) ToPatch() Patch {
	p := Patch{
		EmployeeID:    d.EmployeeID,
		Description:   d.Description,
		DateRequired:  d.DateRequired,
		AssignedAgent: d.AssignedAgent,
		RejectReason:  d.RejectReason,
		Resolution:    d.Resolution,
	}
	if d.Type != nil {
		typ := Type(*d.Type)
		p.Type = &typ
	}
	if d.Priority != nil {
		prio := Priority(*d.Priority)
		p.Priority = &prio
	}
	switch {
	case d.Asset != nil:
		p.Details = *d.Asset
	case d.Software != nil:
		p.Details = *d.Software
	case d.Support != nil:
		p.Details = *d.Support
	}
	return p
}
