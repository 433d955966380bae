package request

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

var (
	testNow   = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	requester = composables.Actor{UserID: uuid.New(), Name: "Ana Torres"}
	approver  = composables.Actor{UserID: uuid.New(), Name: "Luis Vega"}
	agent     = uuid.New()
)

func draftAsset() Request {
	r := New("ITR/00001", TypeAsset, uuid.New())
	r.ID = uuid.New()
	r.Description = "Laptop for new hire"
	r.Details = AssetDetails{
		Category: AssetCategoryLaptop,
		Quantity: 1,
		Reason:   AssetReasonNewHire,
	}
	r.CreatedAt = testNow.Add(-48 * time.Hour)
	return r
}

func draftSoftware() Request {
	r := New("ITR/00002", TypeSoftware, uuid.New())
	r.ID = uuid.New()
	r.Description = "CRM access"
	r.Details = SoftwareDetails{
		Name:           "CRM",
		Action:         SoftwareActionAccess,
		AccessProfile:  AccessProfileStandard,
		AccessValidity: AccessValidityPermanent,
		BusinessReason: "Sales onboarding",
	}
	return r
}

func draftSupport() Request {
	r := New("ITR/00003", TypeSupport, uuid.New())
	r.ID = uuid.New()
	r.Description = "Printer offline"
	r.Details = SupportDetails{
		Category: SupportCategoryPrinter,
		Impact:   SupportImpactDegraded,
	}
	return r
}

func TestSubmit_Asset(t *testing.T) {
	r := draftAsset()

	r2, ev, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	require.Equal(t, StateSubmitted, r2.State)
	require.NotNil(t, r2.SubmittedAt)
	require.Equal(t, testNow, *r2.SubmittedAt)
	require.Equal(t, r2, ev.Request)

	// The input snapshot stays untouched.
	require.Equal(t, StateDraft, r.State)
	require.Nil(t, r.SubmittedAt)
}

func TestSubmit_NotDraft(t *testing.T) {
	r := draftAsset()
	r.State = StateSubmitted

	r2, _, err := Submit(r, requester, nil, testNow)
	require.True(t, IsIllegalTransition(err))
	require.Equal(t, r, r2)
}

func TestSubmit_DescriptionRequired(t *testing.T) {
	r := draftAsset()
	r.Description = ""

	_, _, err := Submit(r, requester, nil, testNow)
	require.True(t, IsValidationFailed(err))
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Description"}, ve.Violations)
}

func TestSubmit_AssetQuantityZero(t *testing.T) {
	r := draftAsset()
	r.Details = AssetDetails{
		Category: AssetCategoryLaptop,
		Quantity: 0,
		Reason:   AssetReasonNewHire,
	}

	r2, _, err := Submit(r, requester, nil, testNow)
	require.True(t, IsValidationFailed(err))
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, ve.Violations, "Asset quantity")

	// Failed guard leaves every field unchanged.
	require.Equal(t, r, r2)
	require.Equal(t, StateDraft, r2.State)
	require.Nil(t, r2.SubmittedAt)
}

func TestSubmit_SoftwareMissingBusinessReasonOnly(t *testing.T) {
	r := draftSoftware()
	d := r.Details.(SoftwareDetails)
	d.BusinessReason = ""
	r.Details = d

	_, _, err := Submit(r, requester, nil, testNow)
	require.True(t, IsValidationFailed(err))
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Business reason"}, ve.Violations)
	require.Equal(t, "Missing required fields: Business reason", ve.Message)
}

func TestSubmit_SoftwareCollectsAllMissingFields(t *testing.T) {
	r := draftSoftware()
	r.Details = SoftwareDetails{}

	_, _, err := Submit(r, requester, nil, testNow)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{
		"Software name", "Software action", "Access profile", "Access validity", "Business reason",
	}, ve.Violations)
}

func TestSubmit_DetailsTypeMismatch(t *testing.T) {
	r := draftAsset()
	r.Details = SupportDetails{
		Category: SupportCategoryPrinter,
		Impact:   SupportImpactDegraded,
	}

	r2, _, err := Submit(r, requester, nil, testNow)
	require.True(t, IsValidationFailed(err))
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Details"}, ve.Violations)
	require.Equal(t, r, r2)
}

func TestSubmit_SupportAutoAssignsFirstPoolAgent(t *testing.T) {
	r := draftSupport()
	pool := []uuid.UUID{agent, uuid.New()}

	r2, ev, err := Submit(r, requester, pool, testNow)
	require.NoError(t, err)
	require.Equal(t, agent, r2.AssignedAgent)
	require.Equal(t, pool, ev.AgentPool)
}

func TestSubmit_SupportKeepsExistingAgent(t *testing.T) {
	r := draftSupport()
	existing := uuid.New()
	r.AssignedAgent = existing

	r2, _, err := Submit(r, requester, []uuid.UUID{agent}, testNow)
	require.NoError(t, err)
	require.Equal(t, existing, r2.AssignedAgent)
}

func TestSubmit_SupportEmptyPool(t *testing.T) {
	r := draftSupport()

	r2, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, r2.AssignedAgent)
}

func TestApprove(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)

	approvedAt := testNow.Add(time.Hour)
	r2, ev, err := Approve(r, approver, approvedAt)
	require.NoError(t, err)
	require.Equal(t, StateApproved, r2.State)
	require.Equal(t, approver.UserID, r2.ApprovedBy)
	require.NotNil(t, r2.ApprovedAt)
	require.Equal(t, approvedAt, *r2.ApprovedAt)
	require.Equal(t, approver, ev.Actor)
}

func TestApprove_OnlyFromSubmitted(t *testing.T) {
	for _, state := range []State{StateDraft, StateApproved, StateRejected, StateInProgress, StateDone} {
		r := draftAsset()
		r.State = state
		r2, _, err := Approve(r, approver, testNow)
		require.True(t, IsIllegalTransition(err), "state %s", state)
		require.Equal(t, r, r2)
		require.Equal(t, uuid.Nil, r2.ApprovedBy)
	}
}

func TestApproveReject_IllegalForSupport(t *testing.T) {
	r := draftSupport()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)

	_, _, err = Approve(r, approver, testNow)
	require.True(t, IsIllegalTransition(err))

	_, _, err = Reject(r, approver, "nope")
	require.True(t, IsIllegalTransition(err))
}

func TestReject_RequiresReason(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)

	r2, _, err := Reject(r, approver, "")
	require.True(t, IsValidationFailed(err))
	require.Equal(t, r, r2)

	r3, ev, err := Reject(r, approver, "budget")
	require.NoError(t, err)
	require.Equal(t, StateRejected, r3.State)
	require.Equal(t, "budget", r3.RejectReason)
	require.Equal(t, "budget", ev.Reason)
}

func TestReject_UsesRecordedReason(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	r.RejectReason = "duplicate request"

	r2, ev, err := Reject(r, approver, "")
	require.NoError(t, err)
	require.Equal(t, "duplicate request", r2.RejectReason)
	require.Equal(t, "duplicate request", ev.Reason)
}

func TestStart_RequiresAssignedAgent(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	r, _, err = Approve(r, approver, testNow)
	require.NoError(t, err)

	r2, _, err := Start(r, approver)
	require.True(t, IsMissingAssignment(err))
	require.Equal(t, r, r2)

	r.AssignedAgent = agent
	r3, _, err := Start(r, approver)
	require.NoError(t, err)
	require.Equal(t, StateInProgress, r3.State)
}

func TestStart_SupportFromSubmitted(t *testing.T) {
	r := draftSupport()
	r, _, err := Submit(r, requester, []uuid.UUID{agent}, testNow)
	require.NoError(t, err)

	r2, _, err := Start(r, requester)
	require.NoError(t, err)
	require.Equal(t, StateInProgress, r2.State)

	// Support never passes through approved.
	r.State = StateApproved
	_, _, err = Start(r, requester)
	require.True(t, IsIllegalTransition(err))
}

func TestStart_AssetNeedsApprovalFirst(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	r.AssignedAgent = agent

	_, _, err = Start(r, approver)
	require.True(t, IsIllegalTransition(err))
}

func TestComplete(t *testing.T) {
	r := draftSupport()
	r, _, err := Submit(r, requester, []uuid.UUID{agent}, testNow)
	require.NoError(t, err)
	r, _, err = Start(r, requester)
	require.NoError(t, err)

	r2, _, err := Complete(r, requester, "", testNow)
	require.True(t, IsValidationFailed(err))
	require.Equal(t, r, r2)

	doneAt := testNow.Add(2 * time.Hour)
	r3, ev, err := Complete(r, requester, "fixed", doneAt)
	require.NoError(t, err)
	require.Equal(t, StateDone, r3.State)
	require.Equal(t, "fixed", r3.Resolution)
	require.NotNil(t, r3.DoneAt)
	require.Equal(t, doneAt, *r3.DoneAt)
	require.Equal(t, "fixed", ev.Resolution)
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []State{StateRejected, StateDone} {
		r := draftAsset()
		r.State = terminal
		r.AssignedAgent = agent

		_, _, err := Submit(r, requester, nil, testNow)
		require.True(t, IsIllegalTransition(err), "submit from %s", terminal)
		_, _, err = Approve(r, approver, testNow)
		require.True(t, IsIllegalTransition(err), "approve from %s", terminal)
		_, _, err = Reject(r, approver, "reason")
		require.True(t, IsIllegalTransition(err), "reject from %s", terminal)
		_, _, err = Start(r, approver)
		require.True(t, IsIllegalTransition(err), "start from %s", terminal)
		_, _, err = Complete(r, approver, "done", testNow)
		require.True(t, IsIllegalTransition(err), "complete from %s", terminal)
	}
}

func TestRejectedRequestCannotStart(t *testing.T) {
	r := draftAsset()
	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	r, _, err = Reject(r, approver, "budget")
	require.NoError(t, err)
	r.AssignedAgent = agent

	_, _, err = Start(r, approver)
	require.True(t, IsIllegalTransition(err))
}

func TestFullSupportLifecycle(t *testing.T) {
	r := draftSupport()
	pool := []uuid.UUID{agent}

	r, _, err := Submit(r, requester, pool, testNow)
	require.NoError(t, err)
	require.Equal(t, StateSubmitted, r.State)
	require.Equal(t, agent, r.AssignedAgent)

	r, _, err = Start(r, requester)
	require.NoError(t, err)
	require.Equal(t, StateInProgress, r.State)

	r, _, err = Complete(r, requester, "fixed", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, StateDone, r.State)
	require.Equal(t, "fixed", r.Resolution)
	require.NotNil(t, r.DoneAt)
}

func TestEveryTransitionProducesEnumeratedState(t *testing.T) {
	r := draftAsset()
	require.True(t, r.State.Valid())

	r, _, err := Submit(r, requester, nil, testNow)
	require.NoError(t, err)
	require.True(t, r.State.Valid())

	r, _, err = Approve(r, approver, testNow)
	require.NoError(t, err)
	require.True(t, r.State.Valid())

	r.AssignedAgent = agent
	r, _, err = Start(r, approver)
	require.NoError(t, err)
	require.True(t, r.State.Valid())

	r, _, err = Complete(r, approver, "delivered", testNow)
	require.NoError(t, err)
	require.True(t, r.State.Valid())
}
