package request

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string         { return &s }
func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
func prioPtr(p Priority) *Priority    { return &p }

func TestApply_ContentMutableInDraft(t *testing.T) {
	r := draftAsset()

	r2, err := r.Apply(Patch{
		Description: strPtr("Two laptops"),
		Details:     AssetDetails{Category: AssetCategoryLaptop, Quantity: 2, Reason: AssetReasonGrowth},
	})
	require.NoError(t, err)
	require.Equal(t, "Two laptops", r2.Description)
	require.Equal(t, 2, r2.Details.(AssetDetails).Quantity)

	// Original snapshot untouched.
	require.Equal(t, "Laptop for new hire", r.Description)
}

func TestApply_ContentFrozenAfterDraft(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)

	before := r
	r2, err := r.Apply(Patch{Description: strPtr("changed my mind")})
	require.True(t, IsImmutableFieldViolation(err))
	require.Equal(t, before, r2)
}

func TestApply_WholePatchRejectedOnMixedUpdate(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)

	// One content field poisons the whole patch: the metadata part must not
	// be applied either.
	r2, err := r.Apply(Patch{
		Description:   strPtr("sneaky edit"),
		AssignedAgent: uuidPtr(agent),
	})
	require.True(t, IsImmutableFieldViolation(err))
	require.Equal(t, uuid.Nil, r2.AssignedAgent)
}

func TestApply_MetadataMutableInAnyState(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	r, _, err = Approve(r, approver, testNow)
	require.NoError(t, err)

	r2, err := r.Apply(Patch{
		AssignedAgent: uuidPtr(agent),
		Priority:      prioPtr(PriorityHigh),
		Resolution:    strPtr("replaced toner"),
	})
	require.NoError(t, err)
	require.Equal(t, agent, r2.AssignedAgent)
	require.Equal(t, PriorityHigh, r2.Priority)
	require.Equal(t, "replaced toner", r2.Resolution)
}

func TestApply_TypeChangeResetsPayload(t *testing.T) {
	r := draftAsset()
	typ := TypeSupport

	r2, err := r.Apply(Patch{Type: &typ})
	require.NoError(t, err)
	require.Equal(t, TypeSupport, r2.Type)
	require.IsType(t, SupportDetails{}, r2.Details)
}

func TestApply_RejectReasonFrozenAfterRejection(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	r, _, err = Reject(r, approver, "budget")
	require.NoError(t, err)

	_, err = r.Apply(Patch{RejectReason: strPtr("actually fine")})
	require.True(t, IsImmutableFieldViolation(err))
	require.Equal(t, "budget", r.RejectReason)
}

func TestApply_DateRequiredIsContent(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)

	due := testNow.Add(72 * time.Hour)
	_, err = r.Apply(Patch{DateRequired: &due})
	require.True(t, IsImmutableFieldViolation(err))
}

func TestPatch_ContentFields(t *testing.T) {
	typ := TypeAsset
	p := Patch{
		Type:        &typ,
		Description: strPtr("x"),
		Details:     AssetDetails{},
		Priority:    prioPtr(PriorityLow),
	}
	require.Equal(t, []string{"request_type", "description", "details"}, p.ContentFields())

	require.Empty(t, Patch{AssignedAgent: uuidPtr(agent)}.ContentFields())
}
