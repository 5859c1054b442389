package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/assign"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/roles"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/domain"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/scoring"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory LeadsRepository for exercising the engine without
// a database.
type fakeRepo struct {
	leads     map[uuid.UUID]repository.Lead
	timeline  map[uuid.UUID][]repository.TimelineEntry
	projects  int
	lastList  repository.ListParams
	createErr error
	getErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:    map[uuid.UUID]repository.Lead{},
		timeline: map[uuid.UUID][]repository.TimelineEntry{},
	}
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateLeadParams) (repository.Lead, error) {
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	now := time.Now()
	lead := repository.Lead{
		ID: uuid.New(), FirstName: p.FirstName, LastName: p.LastName,
		Email: p.Email, Phone: p.Phone, Source: p.Source, City: p.City,
		BudgetMin: p.BudgetMin, BudgetMax: p.BudgetMax, ProjectType: p.ProjectType,
		PropertyType: p.PropertyType, Timeline: p.Timeline, Description: p.Description,
		Score: p.Score, Status: domain.StatusNew, AssignedTo: p.AssignedTo,
		CreatedAt: now, UpdatedAt: now,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if f.getErr != nil {
		return repository.Lead{}, f.getErr
	}
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, p repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if p.FirstName != nil {
		lead.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		lead.LastName = *p.LastName
	}
	if p.Email != nil {
		lead.Email = p.Email
	}
	if p.Phone != nil {
		lead.Phone = p.Phone
	}
	if p.City != nil {
		lead.City = p.City
	}
	if p.BudgetMin != nil {
		lead.BudgetMin = p.BudgetMin
	}
	if p.BudgetMax != nil {
		lead.BudgetMax = p.BudgetMax
	}
	if p.ProjectType != nil {
		lead.ProjectType = p.ProjectType
	}
	if p.PropertyType != nil {
		lead.PropertyType = p.PropertyType
	}
	if p.Timeline != nil {
		lead.Timeline = p.Timeline
	}
	if p.Description != nil {
		lead.Description = p.Description
	}
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to string, lostReason *string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if lead.Status != from {
		return repository.Lead{}, repository.ErrStatusMoved
	}
	lead.Status = to
	if lostReason != nil {
		lead.LostReason = lostReason
	}
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateAssignment(_ context.Context, id uuid.UUID, assigneeID *uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.AssignedTo = assigneeID
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) SetScore(_ context.Context, id uuid.UUID, score int) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Score = score
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, p repository.ListParams) ([]repository.Lead, int, error) {
	f.lastList = p
	out := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Convert(_ context.Context, p repository.ConvertParams) (repository.ConvertResult, error) {
	lead, ok := f.leads[p.LeadID]
	if !ok {
		return repository.ConvertResult{}, repository.ErrNotFound
	}
	if lead.ProjectID != nil || lead.Status == domain.StatusConverted {
		return repository.ConvertResult{}, repository.ErrAlreadyConverted
	}
	if !domain.CanConvert(lead.Status) {
		return repository.ConvertResult{}, repository.ErrNotConvertible
	}
	projectID := uuid.New()
	lead.Status = domain.StatusConverted
	lead.ProjectID = &projectID
	lead.UpdatedAt = time.Now()
	f.leads[p.LeadID] = lead
	f.projects++
	return repository.ConvertResult{Lead: lead, ProjectID: projectID}, nil
}

func (f *fakeRepo) CreateTimelineEntry(_ context.Context, p repository.CreateTimelineEntryParams) (repository.TimelineEntry, error) {
	entry := repository.TimelineEntry{
		ID: uuid.New(), LeadID: p.LeadID, ActorType: p.ActorType, ActorName: p.ActorName,
		EventType: p.EventType, Title: p.Title, Summary: p.Summary, Metadata: p.Metadata,
		CreatedAt: time.Now(),
	}
	f.timeline[p.LeadID] = append(f.timeline[p.LeadID], entry)
	return entry, nil
}

func (f *fakeRepo) ListTimeline(_ context.Context, leadID uuid.UUID) ([]repository.TimelineEntry, error) {
	return f.timeline[leadID], nil
}

var _ repository.LeadsRepository = (*fakeRepo)(nil)

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *fakeBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func (b *fakeBus) names() []string {
	out := make([]string, len(b.published))
	for i, e := range b.published {
		out[i] = e.EventName()
	}
	return out
}

type staffPool struct {
	candidates []assign.Candidate
	err        error
}

func (p *staffPool) CandidatesByRegion(context.Context, string) ([]assign.Candidate, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.candidates, nil
}

func newTestService(repo repository.LeadsRepository, pool assign.Source) (*Service, *fakeBus) {
	bus := &fakeBus{}
	svc := New(repo, assign.NewSelector(pool), scoring.NewScorer(scoring.DefaultTable()), bus, logger.New("development"))
	return svc, bus
}

func adminActor() Actor {
	return Actor{ID: uuid.New(), Roles: []string{roles.Admin}}
}

func designerActor(id uuid.UUID) Actor {
	return Actor{ID: id, Roles: []string{roles.InteriorDesigner}}
}

func seedLead(repo *fakeRepo, status string, assignee *uuid.UUID) repository.Lead {
	now := time.Now()
	city := "Mumbai"
	lead := repository.Lead{
		ID: uuid.New(), FirstName: "Priya", LastName: "Sharma", Source: "website",
		City: &city, Status: status, AssignedTo: assignee,
		CreatedAt: now, UpdatedAt: now,
	}
	repo.leads[lead.ID] = lead
	return lead
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := apperr.GetKind(err); got != kind {
		t.Fatalf("error kind = %v (%v), want %v", got, err, kind)
	}
}

func TestCreateRequiresContactChannel(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), &staffPool{})

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Priya",
		Source:    "website",
	})
	wantKind(t, err, apperr.KindValidation)
}

func TestCreateScoresAndAutoAssigns(t *testing.T) {
	now := time.Now()
	busy := assign.Candidate{ID: uuid.New(), OpenCount: 3, CreatedAt: now.Add(-time.Hour)}
	free := assign.Candidate{ID: uuid.New(), OpenCount: 1, CreatedAt: now}
	repo := newFakeRepo()
	svc, bus := newTestService(repo, &staffPool{candidates: []assign.Candidate{busy, free}})

	budget := int64(600000)
	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName:   "Priya",
		Email:       "priya@example.com",
		Source:      "referral",
		City:        "Mumbai",
		BudgetMin:   &budget,
		Timeline:    "immediate",
		ProjectType: "full_home",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Top budget + timeline + scope + source tiers plus the email bonus.
	if resp.Score != 100 {
		t.Errorf("score = %d, want 100", resp.Score)
	}
	if resp.Status != domain.StatusNew {
		t.Errorf("status = %q, want %q", resp.Status, domain.StatusNew)
	}
	if resp.AssignedTo == nil || *resp.AssignedTo != free.ID {
		t.Errorf("assignedTo = %v, want the candidate with 1 open lead", resp.AssignedTo)
	}

	names := bus.names()
	if len(names) != 2 || names[0] != "leads.created" || names[1] != "leads.assigned" {
		t.Errorf("published events = %v, want [leads.created leads.assigned]", names)
	}
	assigned, ok := bus.published[1].(events.LeadAssigned)
	if !ok || !assigned.Auto || assigned.AssigneeID != free.ID {
		t.Errorf("leads.assigned payload = %+v, want auto assignment to %s", bus.published[1], free.ID)
	}

	if entries := repo.timeline[resp.ID]; len(entries) != 2 {
		t.Errorf("timeline entries = %d, want 2 (received + assigned)", len(entries))
	}
}

func TestCreateWithoutRegionSkipsAssignment(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, &staffPool{candidates: []assign.Candidate{{ID: uuid.New()}}})

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Priya",
		Phone:     "+919876543210",
		Source:    "website",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.AssignedTo != nil {
		t.Errorf("assignedTo = %v, want nil without a city", resp.AssignedTo)
	}
	for _, name := range bus.names() {
		if name == "leads.assigned" {
			t.Error("leads.assigned published for an unassigned lead")
		}
	}
}

func TestCreateWithNoEligibleStaffStillSucceeds(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &staffPool{})

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Priya",
		Email:     "priya@example.com",
		Source:    "website",
		City:      "Indore",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != domain.StatusNew || resp.AssignedTo != nil {
		t.Errorf("lead = status %q assignedTo %v, want status new and no assignee", resp.Status, resp.AssignedTo)
	}
}

func TestCreateSurvivesCandidateReadFailure(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &staffPool{err: errors.New("connection reset")})

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Priya",
		Email:     "priya@example.com",
		Source:    "website",
		City:      "Mumbai",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.AssignedTo != nil {
		t.Errorf("assignedTo = %v, want nil after a failed candidate read", resp.AssignedTo)
	}
}

func TestCreatePropagatesStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	storeErr := errors.New("connection refused")
	repo.createErr = storeErr
	svc, _ := newTestService(repo, &staffPool{})

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Priya",
		Email:     "priya@example.com",
		Source:    "website",
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want the store error propagated unmodified", err)
	}
}

func TestTransitionHappyPath(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusNew, nil)
	svc, bus := newTestService(repo, &staffPool{})

	resp, err := svc.Transition(context.Background(), lead.ID, adminActor(), transport.UpdateStatusRequest{Status: domain.StatusContacted})
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if resp.Status != domain.StatusContacted {
		t.Errorf("status = %q, want contacted", resp.Status)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.status_changed" {
		t.Errorf("published = %v, want one leads.status_changed", bus.names())
	}
	if entries := repo.timeline[lead.ID]; len(entries) != 1 || entries[0].EventType != repository.EventTypeStatusChange {
		t.Errorf("timeline = %+v, want one status_change entry", entries)
	}
}

func TestTransitionRules(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		req      transport.UpdateStatusRequest
		wantKind apperr.Kind
	}{
		{"skip to qualified", domain.StatusNew, transport.UpdateStatusRequest{Status: domain.StatusQualified}, apperr.KindConflict},
		{"backwards", domain.StatusQualified, transport.UpdateStatusRequest{Status: domain.StatusContacted}, apperr.KindConflict},
		{"direct convert write", domain.StatusQualified, transport.UpdateStatusRequest{Status: domain.StatusConverted}, apperr.KindValidation},
		{"from converted", domain.StatusConverted, transport.UpdateStatusRequest{Status: domain.StatusContacted}, apperr.KindConflict},
		{"from lost", domain.StatusLost, transport.UpdateStatusRequest{Status: domain.StatusContacted}, apperr.KindConflict},
		{"lost needs reason", domain.StatusContacted, transport.UpdateStatusRequest{Status: domain.StatusLost}, apperr.KindValidation},
		{"unknown status", domain.StatusNew, transport.UpdateStatusRequest{Status: "archived"}, apperr.KindValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			lead := seedLead(repo, tc.from, nil)
			svc, bus := newTestService(repo, &staffPool{})

			_, err := svc.Transition(context.Background(), lead.ID, adminActor(), tc.req)
			wantKind(t, err, tc.wantKind)
			if len(bus.published) != 0 {
				t.Errorf("events published for a rejected transition: %v", bus.names())
			}
			if repo.leads[lead.ID].Status != tc.from {
				t.Errorf("status mutated to %q on a rejected transition", repo.leads[lead.ID].Status)
			}
		})
	}
}

func TestTransitionToLostRecordsReason(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusQualified, nil)
	svc, _ := newTestService(repo, &staffPool{})

	resp, err := svc.Transition(context.Background(), lead.ID, adminActor(), transport.UpdateStatusRequest{
		Status: domain.StatusLost,
		Reason: "went with a competitor",
	})
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if resp.Status != domain.StatusLost {
		t.Errorf("status = %q, want lost", resp.Status)
	}
	if resp.LostReason == nil || *resp.LostReason != "went with a competitor" {
		t.Errorf("lostReason = %v, want the recorded reason", resp.LostReason)
	}
}

func TestTransitionForbiddenForUnrelatedDesigner(t *testing.T) {
	repo := newFakeRepo()
	someone := uuid.New()
	lead := seedLead(repo, domain.StatusNew, &someone)
	svc, _ := newTestService(repo, &staffPool{})

	_, err := svc.Transition(context.Background(), lead.ID, designerActor(uuid.New()), transport.UpdateStatusRequest{Status: domain.StatusContacted})
	wantKind(t, err, apperr.KindForbidden)
}

func TestTransitionAllowedForAssignedDesigner(t *testing.T) {
	repo := newFakeRepo()
	designer := uuid.New()
	lead := seedLead(repo, domain.StatusNew, &designer)
	svc, _ := newTestService(repo, &staffPool{})

	if _, err := svc.Transition(context.Background(), lead.ID, designerActor(designer), transport.UpdateStatusRequest{Status: domain.StatusContacted}); err != nil {
		t.Fatalf("assigned designer was rejected: %v", err)
	}
}

func TestTransitionNotFound(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), &staffPool{})

	_, err := svc.Transition(context.Background(), uuid.New(), adminActor(), transport.UpdateStatusRequest{Status: domain.StatusContacted})
	wantKind(t, err, apperr.KindNotFound)
}

func TestAssignManual(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusNew, nil)
	svc, bus := newTestService(repo, &staffPool{})
	designer := uuid.New()

	resp, err := svc.Assign(context.Background(), lead.ID, adminActor(), transport.AssignLeadRequest{
		AssigneeID: transport.OptionalUUID{Value: &designer, Set: true},
	})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if resp.AssignedTo == nil || *resp.AssignedTo != designer {
		t.Errorf("assignedTo = %v, want %s", resp.AssignedTo, designer)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	if assigned := bus.published[0].(events.LeadAssigned); assigned.Auto {
		t.Error("manual assignment published with auto = true")
	}
}

func TestAssignAutoPicksLeastLoaded(t *testing.T) {
	now := time.Now()
	busy := assign.Candidate{ID: uuid.New(), OpenCount: 3, CreatedAt: now}
	free := assign.Candidate{ID: uuid.New(), OpenCount: 1, CreatedAt: now}
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusNew, nil)
	svc, _ := newTestService(repo, &staffPool{candidates: []assign.Candidate{busy, free}})

	resp, err := svc.Assign(context.Background(), lead.ID, adminActor(), transport.AssignLeadRequest{})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if resp.AssignedTo == nil || *resp.AssignedTo != free.ID {
		t.Errorf("assignedTo = %v, want least-loaded candidate %s", resp.AssignedTo, free.ID)
	}
}

func TestAssignAutoSkipLeavesLeadUntouched(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusNew, nil)
	svc, bus := newTestService(repo, &staffPool{})

	resp, err := svc.Assign(context.Background(), lead.ID, adminActor(), transport.AssignLeadRequest{})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if resp.AssignedTo != nil {
		t.Errorf("assignedTo = %v, want nil when nobody is eligible", resp.AssignedTo)
	}
	if len(bus.published) != 0 {
		t.Errorf("events published on a skipped assignment: %v", bus.names())
	}
}

func TestAssignExplicitNullUnassigns(t *testing.T) {
	repo := newFakeRepo()
	designer := uuid.New()
	lead := seedLead(repo, domain.StatusContacted, &designer)
	svc, bus := newTestService(repo, &staffPool{})

	resp, err := svc.Assign(context.Background(), lead.ID, adminActor(), transport.AssignLeadRequest{
		AssigneeID: transport.OptionalUUID{Value: nil, Set: true},
	})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if resp.AssignedTo != nil {
		t.Errorf("assignedTo = %v, want nil after unassign", resp.AssignedTo)
	}
	if len(bus.published) != 0 {
		t.Errorf("assignment event published for an unassign: %v", bus.names())
	}
}

func TestAssignPropagatesCandidateReadFailure(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusNew, nil)
	readErr := errors.New("timeout")
	svc, _ := newTestService(repo, &staffPool{err: readErr})

	_, err := svc.Assign(context.Background(), lead.ID, adminActor(), transport.AssignLeadRequest{})
	if !errors.Is(err, readErr) {
		t.Errorf("error = %v, want the candidate read error propagated", err)
	}
}

func TestAssignRejectedOnTerminalLead(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusLost, nil)
	svc, _ := newTestService(repo, &staffPool{})
	designer := uuid.New()

	_, err := svc.Assign(context.Background(), lead.ID, adminActor(), transport.AssignLeadRequest{
		AssigneeID: transport.OptionalUUID{Value: &designer, Set: true},
	})
	wantKind(t, err, apperr.KindConflict)
}

func TestConvertQualifiedLead(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusQualified, nil)
	svc, bus := newTestService(repo, &staffPool{})
	budget := int64(800000)

	resp, err := svc.Convert(context.Background(), lead.ID, adminActor(), transport.ConvertLeadRequest{
		Title:  "3BHK full home interiors",
		Budget: &budget,
	})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if resp.Lead.Status != domain.StatusConverted {
		t.Errorf("status = %q, want converted", resp.Lead.Status)
	}
	if resp.Lead.ProjectID == nil || *resp.Lead.ProjectID != resp.ProjectID {
		t.Errorf("lead.projectId = %v, want %s", resp.Lead.ProjectID, resp.ProjectID)
	}
	if repo.projects != 1 {
		t.Errorf("projects created = %d, want 1", repo.projects)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.converted" {
		t.Errorf("published = %v, want one leads.converted", bus.names())
	}
}

func TestConvertTwiceFailsWithoutSecondProject(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusQualified, nil)
	svc, _ := newTestService(repo, &staffPool{})
	req := transport.ConvertLeadRequest{Title: "Villa interiors"}

	if _, err := svc.Convert(context.Background(), lead.ID, adminActor(), req); err != nil {
		t.Fatalf("first conversion failed: %v", err)
	}
	_, err := svc.Convert(context.Background(), lead.ID, adminActor(), req)
	wantKind(t, err, apperr.KindConflict)
	if repo.projects != 1 {
		t.Errorf("projects created = %d after double conversion, want 1", repo.projects)
	}
}

func TestConvertRejectsNonQualifiedStatuses(t *testing.T) {
	for _, status := range []string{domain.StatusNew, domain.StatusContacted, domain.StatusLost} {
		repo := newFakeRepo()
		lead := seedLead(repo, status, nil)
		svc, _ := newTestService(repo, &staffPool{})

		_, err := svc.Convert(context.Background(), lead.ID, adminActor(), transport.ConvertLeadRequest{Title: "Project"})
		wantKind(t, err, apperr.KindConflict)
		if repo.projects != 0 {
			t.Errorf("project created while converting from %q", status)
		}
	}
}

func TestRescoreRecomputesFromCurrentAttributes(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusContacted, nil)
	budget := int64(600000)
	timeline := "immediate"
	stored := repo.leads[lead.ID]
	stored.BudgetMin = &budget
	stored.Timeline = &timeline
	stored.Score = 5
	repo.leads[lead.ID] = stored
	svc, _ := newTestService(repo, &staffPool{})

	resp, err := svc.Rescore(context.Background(), lead.ID, Actor{})
	if err != nil {
		t.Fatalf("Rescore returned error: %v", err)
	}
	// Top budget tier + immediate timeline + website source.
	if resp.Lead.Score != 70 {
		t.Errorf("score = %d, want 70", resp.Lead.Score)
	}
	if resp.Factors["budget"] != 30 || resp.Factors["timeline"] != 25 || resp.Factors["source"] != 15 {
		t.Errorf("factors = %v, want budget 30, timeline 25, source 15", resp.Factors)
	}
	if entries := repo.timeline[lead.ID]; len(entries) != 1 || entries[0].ActorName != repository.ActorNameRescorer {
		t.Errorf("timeline = %+v, want one system rescore entry", entries)
	}
}

func TestRescoreRejectedOnTerminalLead(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusConverted, nil)
	svc, _ := newTestService(repo, &staffPool{})

	_, err := svc.Rescore(context.Background(), lead.ID, adminActor())
	wantKind(t, err, apperr.KindConflict)
}

func TestListClampsPagination(t *testing.T) {
	repo := newFakeRepo()
	seedLead(repo, domain.StatusNew, nil)
	svc, _ := newTestService(repo, &staffPool{})

	resp, err := svc.List(context.Background(), ListQuery{Page: -3, PageSize: 500})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 50 {
		t.Errorf("page/pageSize = %d/%d, want 1/50", resp.Page, resp.PageSize)
	}
	if repo.lastList.Limit != 50 || repo.lastList.Offset != 0 {
		t.Errorf("store queried with limit %d offset %d, want 50/0", repo.lastList.Limit, repo.lastList.Offset)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), &staffPool{})

	_, err := svc.List(context.Background(), ListQuery{Status: "archived"})
	wantKind(t, err, apperr.KindValidation)
}

func TestUpdateDoesNotRescore(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusNew, nil)
	stored := repo.leads[lead.ID]
	stored.Score = 42
	repo.leads[lead.ID] = stored
	svc, _ := newTestService(repo, &staffPool{})
	budget := int64(900000)

	resp, err := svc.Update(context.Background(), lead.ID, adminActor(), transport.UpdateLeadRequest{BudgetMin: &budget})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if resp.Score != 42 {
		t.Errorf("score = %d after a detail edit, want unchanged 42", resp.Score)
	}
	if resp.BudgetMin == nil || *resp.BudgetMin != budget {
		t.Errorf("budgetMin = %v, want %d", resp.BudgetMin, budget)
	}
}

func TestUpdateRejectedOnTerminalLead(t *testing.T) {
	repo := newFakeRepo()
	lead := seedLead(repo, domain.StatusConverted, nil)
	svc, _ := newTestService(repo, &staffPool{})
	name := "Ananya"

	_, err := svc.Update(context.Background(), lead.ID, adminActor(), transport.UpdateLeadRequest{FirstName: &name})
	wantKind(t, err, apperr.KindConflict)
}

func TestTimelineNotFound(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), &staffPool{})

	_, err := svc.Timeline(context.Background(), uuid.New())
	wantKind(t, err, apperr.KindNotFound)
}
