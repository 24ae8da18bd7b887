package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Mock UserStore ──

type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]models.User)}
}

func (m *mockUserStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock InstructorStore ──

type mockInstructorStore struct {
	mu          sync.Mutex
	instructors map[uuid.UUID]models.Instructor
	documents   map[uuid.UUID][]models.InstructorDocument
	clock       time.Time
	// writeErr, when set, fails SetPhoto and ReplaceDocument.
	writeErr error
}

func newMockInstructorStore() *mockInstructorStore {
	return &mockInstructorStore{
		instructors: make(map[uuid.UUID]models.Instructor),
		documents:   make(map[uuid.UUID][]models.InstructorDocument),
		clock:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick gives every write a distinct, increasing timestamp.
func (m *mockInstructorStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockInstructorStore) put(inst models.Instructor) models.Instructor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = m.tick()
	}
	inst.UpdatedAt = m.tick()
	m.instructors[inst.ID] = inst
	return inst
}

func (m *mockInstructorStore) GetByID(_ context.Context, id uuid.UUID) (*models.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instructors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inst, nil
}

func (m *mockInstructorStore) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.instructors {
		if inst.UserID == userID {
			inst := inst
			return &inst, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorStore) Upsert(_ context.Context, inst *models.Instructor) error {
	stored := m.put(*inst)
	*inst = stored
	return nil
}

func (m *mockInstructorStore) ListApproved(_ context.Context, place string) ([]models.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(place)
	out := []models.Instructor{}
	for _, inst := range m.instructors {
		if inst.Status != models.ApprovalApproved {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(inst.City), needle) &&
			!strings.Contains(strings.ToLower(inst.Neighborhood), needle) {
			continue
		}
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockInstructorStore) ListPending(_ context.Context) ([]models.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Instructor{}
	for _, inst := range m.instructors {
		if inst.Status == models.ApprovalPending {
			inst.Documents = m.documents[inst.ID]
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *mockInstructorStore) SetStatus(_ context.Context, id uuid.UUID, status models.ApprovalStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instructors[id]
	if !ok {
		return false, nil
	}
	inst.Status = status
	inst.UpdatedAt = m.tick()
	m.instructors[id] = inst
	return true, nil
}

func (m *mockInstructorStore) SetPhoto(_ context.Context, id uuid.UUID, kind PhotoKind, key, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return "", m.writeErr
	}
	inst, ok := m.instructors[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	var previous string
	if kind == PhotoVehicle {
		previous = inst.CarPhotoKey
		inst.CarPhotoKey, inst.CarPhotoURL = key, &url
	} else {
		previous = inst.AvatarKey
		inst.AvatarKey, inst.AvatarURL = key, &url
	}
	m.instructors[id] = inst
	return previous, nil
}

func (m *mockInstructorStore) ReplaceDocument(_ context.Context, doc *models.InstructorDocument) (*models.InstructorDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	doc.ID = uuid.New()
	doc.CreatedAt = m.tick()

	var previous *models.InstructorDocument
	kept := []models.InstructorDocument{}
	for _, d := range m.documents[doc.InstructorID] {
		if d.Type == doc.Type {
			d := d
			previous = &d
			continue
		}
		kept = append(kept, d)
	}
	m.documents[doc.InstructorID] = append(kept, *doc)
	return previous, nil
}

func (m *mockInstructorStore) ListDocuments(_ context.Context, instructorID uuid.UUID) ([]models.InstructorDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.InstructorDocument{}, m.documents[instructorID]...), nil
}

// ── Mock SlotStore ──

type mockSlotStore struct {
	mu          sync.Mutex
	slots       map[uuid.UUID]models.Slot
	instructors *mockInstructorStore
}

func newMockSlotStore(instructors *mockInstructorStore) *mockSlotStore {
	return &mockSlotStore{slots: make(map[uuid.UUID]models.Slot), instructors: instructors}
}

func (m *mockSlotStore) Create(_ context.Context, slot *models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	stored := *slot
	stored.Instructor = nil
	m.slots[slot.ID] = stored
	return nil
}

func (m *mockSlotStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	m.mu.Lock()
	slot, ok := m.slots[id]
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	inst, err := m.instructors.GetByID(ctx, slot.InstructorID)
	if err == nil {
		slot.Instructor = inst
	}
	return &slot, nil
}

func (m *mockSlotStore) list(keep func(models.Slot) bool) []models.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Slot{}
	for _, s := range m.slots {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	return out
}

func (m *mockSlotStore) ListByInstructor(_ context.Context, instructorID uuid.UUID) ([]models.Slot, error) {
	return m.list(func(s models.Slot) bool { return s.InstructorID == instructorID }), nil
}

func (m *mockSlotStore) ListOpenByInstructor(_ context.Context, instructorID uuid.UUID, from time.Time) ([]models.Slot, error) {
	return m.list(func(s models.Slot) bool {
		return s.InstructorID == instructorID && s.State == models.SlotOpen && !s.ScheduledTime.Before(from)
	}), nil
}

// ListByStudent attaches the instructor the way the gorm preload does.
func (m *mockSlotStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Slot, error) {
	slots := m.list(func(s models.Slot) bool { return s.StudentID != nil && *s.StudentID == studentID })
	for i := range slots {
		if inst, err := m.instructors.GetByID(ctx, slots[i].InstructorID); err == nil {
			slots[i].Instructor = inst
		}
	}
	return slots, nil
}

func (m *mockSlotStore) Transition(_ context.Context, id uuid.UUID, from models.SlotState, version int, to models.SlotState, studentID *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok || slot.State != from || slot.Version != version {
		return false, nil
	}
	slot.State = to
	slot.StudentID = studentID
	slot.Version++
	m.slots[id] = slot
	return true, nil
}

func (m *mockSlotStore) Delete(_ context.Context, id uuid.UUID, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok || slot.Version != version || slot.State == models.SlotConfirmed {
		return false, nil
	}
	delete(m.slots, id)
	return true, nil
}

func (m *mockSlotStore) get(id uuid.UUID) (models.Slot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	return s, ok
}

// ── Mock MessageStore ──

type mockMessageStore struct {
	mu       sync.Mutex
	messages []models.Message
}

func (m *mockMessageStore) Create(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uuid.New()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockMessageStore) ListBySlot(_ context.Context, slotID uuid.UUID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.messages {
		if msg.SlotID == slotID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ── Mock ReviewStore ──

type mockReviewStore struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]models.Review
}

func newMockReviewStore() *mockReviewStore {
	return &mockReviewStore{reviews: make(map[uuid.UUID]models.Review)}
}

func (m *mockReviewStore) CreateIfAbsent(_ context.Context, review *models.Review) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.reviews[review.SlotID]; exists {
		return false, nil
	}
	review.ID = uuid.New()
	m.reviews[review.SlotID] = *review
	return true, nil
}

func (m *mockReviewStore) ReviewedSlots(_ context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for _, id := range slotIDs {
		if _, ok := m.reviews[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (m *mockReviewStore) ListByInstructor(_ context.Context, instructorID uuid.UUID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for _, r := range m.reviews {
		if r.InstructorID == instructorID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockReviewStore) Stats(_ context.Context, instructorIDs []uuid.UUID) (map[uuid.UUID]RatingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]RatingStats)
	for _, r := range m.reviews {
		for _, id := range instructorIDs {
			if r.InstructorID == id {
				s := out[id]
				s.Count++
				s.Sum += int64(r.Rating)
				out[id] = s
			}
		}
	}
	return out, nil
}

func (m *mockReviewStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

// ── Mock OrphanStore / ObjectStore ──

type mockOrphanStore struct {
	mu   sync.Mutex
	keys []string
}

func (m *mockOrphanStore) Add(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return nil
}

type mockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: make(map[string][]byte)}
}

func (m *mockObjectStore) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return "https://cdn.test/" + key, nil
}
