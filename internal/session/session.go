// Package session implements the cold-call workflow state machine: an
// operator's in-progress pass over a candidate's missing fields, with
// list and focus navigation, question linking, and write-through to the
// verification store. All session state is ephemeral; only the store's
// records and audit history survive teardown.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/coldcall/internal/fieldpath"
	"github.com/jonathan/coldcall/internal/questions"
	"github.com/jonathan/coldcall/internal/scanner"
	"github.com/jonathan/coldcall/internal/store"
	"github.com/jonathan/coldcall/internal/types"
)

// Progress is the per-session state of one field.
type Progress string

// Field progress states. AskLater is a deferral, not a terminal state.
const (
	ProgressPending  Progress = "pending"
	ProgressAnswered Progress = "answered"
	ProgressSkipped  Progress = "skipped"
	ProgressAskLater Progress = "ask_later"
)

// allowedTransitions encodes the per-field state machine. Answered and
// skipped are terminal for the session but re-invoking the same
// transition is an idempotent overwrite. Deferring twice is harmless.
var allowedTransitions = map[Progress]map[Progress]bool{
	ProgressPending:  {ProgressAnswered: true, ProgressSkipped: true, ProgressAskLater: true},
	ProgressAskLater: {ProgressAnswered: true, ProgressSkipped: true, ProgressAskLater: true},
	ProgressAnswered: {ProgressAnswered: true},
	ProgressSkipped:  {ProgressSkipped: true},
}

// ViewMode selects between free list access and sequential focus
// navigation.
type ViewMode string

// View modes.
const (
	ViewList  ViewMode = "list"
	ViewFocus ViewMode = "focus"
)

// FieldState is the ephemeral per-session wrapper around one empty
// field: its progress, working value, note, and linked question.
type FieldState struct {
	Field    types.EmptyField
	Progress Progress
	Value    any
	Note     string
	Question *types.GeneratedQuestion
}

// Config holds the collaborators and identity for a session.
type Config struct {
	CandidateID string
	Actor       string
	Record      *types.CandidateRecord
	Store       store.Store
	Questions   questions.Client

	// ConversationContext is the default mode sent with question
	// requests, e.g. types.ContextColdCall.
	ConversationContext string
}

// Session is one operator's cold-call pass over a candidate. Methods
// are safe for concurrent use, though the intended model is a single
// logical caller; the only boundary-crossing operation is the question
// request, which may be superseded by a newer one.
type Session struct {
	mu sync.Mutex

	id          uuid.UUID
	candidateID string
	actor       string
	record      *types.CandidateRecord
	store       store.Store
	questions   questions.Client
	convContext string

	open             bool
	fields           []types.EmptyField
	states           map[string]*FieldState // keyed by FieldPath.String()
	keyByName        map[string]string      // ApiFieldName -> state key
	questionsByField map[string]types.GeneratedQuestion
	questionList     []types.GeneratedQuestion
	loading          bool
	lastError        string
	saving           bool
	expanded         map[fieldpath.Section]bool
	viewMode         ViewMode
	focusIndex       int
	generation       uint64
}

// New creates a session. Call Start to scan the candidate and open it.
func New(cfg Config) (*Session, error) {
	if cfg.CandidateID == "" {
		return nil, fmt.Errorf("candidate ID is required")
	}
	if cfg.Record == nil {
		return nil, fmt.Errorf("candidate record is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("verification store is required")
	}
	convContext := cfg.ConversationContext
	if convContext == "" {
		convContext = types.ContextColdCall
	}
	return &Session{
		id:          uuid.New(),
		candidateID: cfg.CandidateID,
		actor:       cfg.Actor,
		record:      cfg.Record,
		store:       cfg.Store,
		questions:   cfg.Questions,
		convContext: convContext,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// CandidateID returns the candidate this session verifies.
func (s *Session) CandidateID() string {
	return s.candidateID
}

// Start scans the candidate record, seeds per-field state, and opens
// the session in list mode. Fields with a populated value but a
// verification status other than verified are included alongside empty
// ones.
func (s *Session) Start(ctx context.Context) error {
	sc := scanner.Scanner{
		NeedsVerification: func(fieldName string) bool {
			rec, err := s.store.Get(ctx, s.candidateID, fieldName)
			return err == nil && rec != nil && rec.Status != types.StatusVerified
		},
	}
	fields := sc.Scan(s.record)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = true
	s.fields = fields
	s.states = make(map[string]*FieldState, len(fields))
	s.keyByName = make(map[string]string, len(fields))
	s.questionsByField = nil
	s.questionList = nil
	s.lastError = ""
	s.viewMode = ViewList
	s.focusIndex = 0
	s.expanded = make(map[fieldpath.Section]bool)

	for _, f := range fields {
		key := f.Path.String()
		s.states[key] = &FieldState{
			Field:    f,
			Progress: ProgressPending,
			Value:    f.Value,
		}
		s.keyByName[f.FieldName] = key
		s.expanded[f.Section] = true
	}
	return nil
}

// Answer records a verified value for a field: the store receives the
// value and a verified status, each audited. Allowed from pending,
// ask-later, and (as an idempotent overwrite) answered.
func (s *Session) Answer(ctx context.Context, fieldName string, value any, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.transition(fieldName, ProgressAnswered)
	if err != nil {
		return err
	}

	s.saving = true
	defer func() { s.saving = false }()

	if _, err := s.store.SetValue(ctx, s.candidateID, fieldName, value, s.actor); err != nil {
		return fmt.Errorf("failed to save field value: %w", err)
	}
	if _, err := s.store.SetStatus(ctx, s.candidateID, fieldName, types.StatusVerified, note, s.actor); err != nil {
		return fmt.Errorf("failed to mark field verified: %w", err)
	}

	st.Progress = ProgressAnswered
	st.Value = value
	st.Note = note
	return nil
}

// Skip marks a field rejected with the skip reason as notes. The stored
// value is left untouched.
func (s *Session) Skip(ctx context.Context, fieldName, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.transition(fieldName, ProgressSkipped)
	if err != nil {
		return err
	}

	s.saving = true
	defer func() { s.saving = false }()

	if _, err := s.store.SetStatus(ctx, s.candidateID, fieldName, types.StatusRejected, reason, s.actor); err != nil {
		return fmt.Errorf("failed to mark field rejected: %w", err)
	}

	st.Progress = ProgressSkipped
	st.Note = reason
	return nil
}

// AskLater defers a field for later in the call. This is scheduling,
// not a verification outcome, so the store is not written.
func (s *Session) AskLater(fieldName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.transition(fieldName, ProgressAskLater)
	if err != nil {
		return err
	}
	st.Progress = ProgressAskLater
	return nil
}

// transition looks up a field and checks the requested progress change.
// Callers must hold the lock.
func (s *Session) transition(fieldName string, to Progress) (*FieldState, error) {
	if !s.open {
		return nil, ErrClosed
	}
	key, ok := s.keyByName[fieldName]
	if !ok {
		return nil, &UnknownFieldError{FieldName: fieldName}
	}
	st := s.states[key]
	if !allowedTransitions[st.Progress][to] {
		return nil, &InvalidTransitionError{FieldName: fieldName, From: st.Progress, To: to}
	}
	return st, nil
}

// RequestQuestions asks the question service for questions covering the
// session's fields. A newer request supersedes an in-flight one: a
// superseded response (or error) is dropped silently and never applied.
// On failure the previously cached questions are kept and the session
// error is set. An empty conversationContext uses the session default.
func (s *Session) RequestQuestions(ctx context.Context, conversationContext string) error {
	token, req, err := s.beginQuestionRequest(conversationContext)
	if err != nil {
		return err
	}

	resp, genErr := s.questions.Generate(ctx, req)
	return s.finishQuestionRequest(token, resp, genErr)
}

// beginQuestionRequest snapshots the request payload and marks the
// session loading. The returned token identifies this request
// generation; only the latest generation may apply its result.
func (s *Session) beginQuestionRequest(conversationContext string) (uint64, *types.QuestionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, nil, ErrClosed
	}
	if s.questions == nil {
		return 0, nil, fmt.Errorf("no question client configured")
	}
	if len(s.fields) == 0 {
		return 0, nil, ErrNoFields
	}

	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.FieldName
	}
	if conversationContext == "" {
		conversationContext = s.convContext
	}

	s.generation++
	s.loading = true
	s.lastError = ""

	return s.generation, &types.QuestionRequest{
		CandidateID:         s.candidateID,
		MissingFields:       names,
		CandidateData:       s.record,
		ConversationContext: conversationContext,
	}, nil
}

// finishQuestionRequest applies a completed request if it is still the
// current generation. Superseded completions are discarded without
// touching session state.
func (s *Session) finishQuestionRequest(token uint64, resp *types.QuestionResponse, genErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return nil
	}
	s.loading = false

	if genErr != nil {
		s.lastError = genErr.Error()
		return genErr
	}

	set := questions.BuildQuestionSet(resp.Questions)
	s.questionsByField = set.ByField
	s.questionList = set.Ordered

	for _, st := range s.states {
		if q, ok := set.ByField[st.Field.FieldName]; ok {
			linked := q
			st.Question = &linked
		} else {
			st.Question = nil
		}
	}
	return nil
}

// SetViewMode switches between list and focus mode. Entering focus mode
// requires a non-empty field list and repositions an invalid cursor to
// the first pending field, or 0 if none are pending.
func (s *Session) SetViewMode(mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrClosed
	}
	switch mode {
	case ViewList:
		s.viewMode = ViewList
		return nil
	case ViewFocus:
		if len(s.fields) == 0 {
			return ErrNoFields
		}
		if s.focusIndex < 0 || s.focusIndex >= len(s.fields) {
			s.focusIndex = s.firstPendingIndex()
		}
		s.viewMode = ViewFocus
		return nil
	default:
		return fmt.Errorf("unknown view mode %q", mode)
	}
}

// Next advances the focus cursor to the next actionable field (pending
// or deferred) after the cursor. With nothing actionable ahead the
// cursor stays put; it never moves past the last index.
func (s *Session) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := s.focusIndex + 1; i < len(s.fields); i++ {
		if s.actionableAt(i) {
			s.focusIndex = i
			break
		}
	}
	return s.focusIndex
}

// Previous moves the focus cursor back one field, clamped at 0.
func (s *Session) Previous() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focusIndex > 0 {
		s.focusIndex--
	}
	return s.focusIndex
}

// FocusIndex returns the current focus cursor.
func (s *Session) FocusIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusIndex
}

// CurrentField returns the field state under the focus cursor.
func (s *Session) CurrentField() (FieldState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focusIndex < 0 || s.focusIndex >= len(s.fields) {
		return FieldState{}, false
	}
	st := s.states[s.fields[s.focusIndex].Path.String()]
	return *st, true
}

// firstPendingIndex returns the index of the first pending field, or 0.
// Callers must hold the lock.
func (s *Session) firstPendingIndex() int {
	for i := range s.fields {
		if s.states[s.fields[i].Path.String()].Progress == ProgressPending {
			return i
		}
	}
	return 0
}

func (s *Session) actionableAt(i int) bool {
	p := s.states[s.fields[i].Path.String()].Progress
	return p == ProgressPending || p == ProgressAskLater
}

// ExpandSection marks a section expanded in list mode.
func (s *Session) ExpandSection(section fieldpath.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expanded != nil {
		s.expanded[section] = true
	}
}

// CollapseSection removes a section from the expanded set.
func (s *Session) CollapseSection(section fieldpath.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expanded, section)
}

// Close discards all ephemeral field state. The verification store's
// records and audit history are untouched.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	s.fields = nil
	s.states = nil
	s.keyByName = nil
	s.questionsByField = nil
	s.questionList = nil
	s.expanded = nil
	s.loading = false
	s.saving = false
}

// FieldView is the externally visible state of one session field.
type FieldView struct {
	Field    types.EmptyField         `json:"field"`
	Progress Progress                 `json:"progress"`
	Value    any                      `json:"value"`
	Note     string                   `json:"note,omitempty"`
	Question *types.GeneratedQuestion `json:"question,omitempty"`
}

// Snapshot is a consistent read of the whole session.
type Snapshot struct {
	ID               string                    `json:"id"`
	CandidateID      string                    `json:"candidate_id"`
	Open             bool                      `json:"open"`
	Fields           []FieldView               `json:"fields"`
	Questions        []types.GeneratedQuestion `json:"questions"`
	Loading          bool                      `json:"loading"`
	Error            string                    `json:"error,omitempty"`
	Saving           bool                      `json:"saving"`
	ViewMode         ViewMode                  `json:"view_mode"`
	FocusIndex       int                       `json:"focus_index"`
	ExpandedSections []string                  `json:"expanded_sections"`
}

// Snapshot returns the session state for presentation. Fields keep the
// scanner's canonical order.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id.String(),
		CandidateID: s.candidateID,
		Open:        s.open,
		Loading:     s.loading,
		Error:       s.lastError,
		Saving:      s.saving,
		ViewMode:    s.viewMode,
		FocusIndex:  s.focusIndex,
	}

	snap.Fields = make([]FieldView, 0, len(s.fields))
	for _, f := range s.fields {
		st := s.states[f.Path.String()]
		snap.Fields = append(snap.Fields, FieldView{
			Field:    st.Field,
			Progress: st.Progress,
			Value:    st.Value,
			Note:     st.Note,
			Question: st.Question,
		})
	}

	snap.Questions = make([]types.GeneratedQuestion, len(s.questionList))
	copy(snap.Questions, s.questionList)

	snap.ExpandedSections = make([]string, 0, len(s.expanded))
	for section := range s.expanded {
		snap.ExpandedSections = append(snap.ExpandedSections, string(section))
	}
	sort.Strings(snap.ExpandedSections)

	return snap
}

// Question returns the generated question linked to a field, if any.
func (s *Session) Question(fieldName string) (types.GeneratedQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questionsByField[fieldName]
	return q, ok
}
