package handlers_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memory backs every fake store with one lock so slot, review and
// instructor views stay consistent with each other.
type memory struct {
	mu          sync.Mutex
	users       map[uuid.UUID]models.User
	instructors map[uuid.UUID]models.Instructor
	documents   map[uuid.UUID][]models.InstructorDocument
	slots       map[uuid.UUID]models.Slot
	messages    []models.Message
	reviews     map[uuid.UUID]models.Review
	orphans     []string
}

func newMemory() *memory {
	return &memory{
		users:       make(map[uuid.UUID]models.User),
		instructors: make(map[uuid.UUID]models.Instructor),
		documents:   make(map[uuid.UUID][]models.InstructorDocument),
		slots:       make(map[uuid.UUID]models.Slot),
		reviews:     make(map[uuid.UUID]models.Review),
	}
}

func (m *memory) stores() services.Stores {
	return services.Stores{
		Users:       fakeUsers{m},
		Instructors: fakeInstructors{m},
		Slots:       fakeSlots{m},
		Messages:    fakeMessages{m},
		Reviews:     fakeReviews{m},
		Orphans:     fakeOrphans{m},
	}
}

type fakeUsers struct{ *memory }

func (f fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = *user
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeInstructors struct{ *memory }

func (f fakeInstructors) GetByID(_ context.Context, id uuid.UUID) (*models.Instructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst, ok := f.instructors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inst, nil
}

func (f fakeInstructors) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Instructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range f.instructors {
		if inst.UserID == userID {
			inst := inst
			return &inst, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeInstructors) Upsert(_ context.Context, inst *models.Instructor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
		inst.CreatedAt = time.Now()
	}
	inst.UpdatedAt = time.Now()
	f.instructors[inst.ID] = *inst
	return nil
}

func (f fakeInstructors) ListApproved(_ context.Context, place string) ([]models.Instructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	place = strings.ToLower(place)
	out := []models.Instructor{}
	for _, inst := range f.instructors {
		if inst.Status != models.ApprovalApproved {
			continue
		}
		if place == "" ||
			strings.Contains(strings.ToLower(inst.City), place) ||
			strings.Contains(strings.ToLower(inst.Neighborhood), place) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeInstructors) ListPending(_ context.Context) ([]models.Instructor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Instructor{}
	for _, inst := range f.instructors {
		if inst.Status == models.ApprovalPending {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (f fakeInstructors) SetStatus(_ context.Context, id uuid.UUID, status models.ApprovalStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst, ok := f.instructors[id]
	if !ok {
		return false, nil
	}
	inst.Status = status
	f.instructors[id] = inst
	return true, nil
}

func (f fakeInstructors) SetPhoto(_ context.Context, id uuid.UUID, kind services.PhotoKind, key, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst, ok := f.instructors[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	var previous string
	switch kind {
	case services.PhotoAvatar:
		previous, inst.AvatarKey, inst.AvatarURL = inst.AvatarKey, key, &url
	default:
		previous, inst.CarPhotoKey, inst.CarPhotoURL = inst.CarPhotoKey, key, &url
	}
	f.instructors[id] = inst
	return previous, nil
}

func (f fakeInstructors) ReplaceDocument(_ context.Context, doc *models.InstructorDocument) (*models.InstructorDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := f.documents[doc.InstructorID]
	doc.ID = uuid.New()
	for i, d := range docs {
		if d.Type == doc.Type {
			previous := d
			docs[i] = *doc
			return &previous, nil
		}
	}
	f.documents[doc.InstructorID] = append(docs, *doc)
	return nil, nil
}

func (f fakeInstructors) ListDocuments(_ context.Context, instructorID uuid.UUID) ([]models.InstructorDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.InstructorDocument{}, f.documents[instructorID]...), nil
}

type fakeSlots struct{ *memory }

func (f fakeSlots) Create(_ context.Context, slot *models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	stored := *slot
	stored.Instructor = nil
	f.slots[slot.ID] = stored
	return nil
}

func (f fakeSlots) GetByID(_ context.Context, id uuid.UUID) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if inst, ok := f.instructors[slot.InstructorID]; ok {
		slot.Instructor = &inst
	}
	return &slot, nil
}

func (f fakeSlots) list(keep func(models.Slot) bool) []models.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Slot{}
	for _, slot := range f.slots {
		if keep(slot) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	return out
}

func (f fakeSlots) ListByInstructor(_ context.Context, instructorID uuid.UUID) ([]models.Slot, error) {
	return f.list(func(s models.Slot) bool { return s.InstructorID == instructorID }), nil
}

func (f fakeSlots) ListOpenByInstructor(_ context.Context, instructorID uuid.UUID, from time.Time) ([]models.Slot, error) {
	return f.list(func(s models.Slot) bool {
		return s.InstructorID == instructorID && s.State == models.SlotOpen && !s.ScheduledTime.Before(from)
	}), nil
}

func (f fakeSlots) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.Slot, error) {
	return f.list(func(s models.Slot) bool { return s.StudentID != nil && *s.StudentID == studentID }), nil
}

func (f fakeSlots) Transition(_ context.Context, id uuid.UUID, from models.SlotState, version int, to models.SlotState, studentID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok || slot.State != from || slot.Version != version {
		return false, nil
	}
	slot.State = to
	slot.StudentID = studentID
	slot.Version++
	f.slots[id] = slot
	return true, nil
}

func (f fakeSlots) Delete(_ context.Context, id uuid.UUID, version int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok || slot.Version != version || slot.State == models.SlotConfirmed {
		return false, nil
	}
	delete(f.slots, id)
	return true, nil
}

type fakeMessages struct{ *memory }

func (f fakeMessages) Create(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f fakeMessages) ListBySlot(_ context.Context, slotID uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, msg := range f.messages {
		if msg.SlotID == slotID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeReviews struct{ *memory }

func (f fakeReviews) CreateIfAbsent(_ context.Context, review *models.Review) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[review.SlotID]; ok {
		return false, nil
	}
	review.ID = uuid.New()
	f.reviews[review.SlotID] = *review
	return true, nil
}

func (f fakeReviews) ReviewedSlots(_ context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for _, id := range slotIDs {
		if _, ok := f.reviews[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f fakeReviews) ListByInstructor(_ context.Context, instructorID uuid.UUID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.InstructorID == instructorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeReviews) Stats(_ context.Context, instructorIDs []uuid.UUID) (map[uuid.UUID]services.RatingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(instructorIDs))
	for _, id := range instructorIDs {
		wanted[id] = true
	}
	out := make(map[uuid.UUID]services.RatingStats)
	for _, r := range f.reviews {
		if !wanted[r.InstructorID] {
			continue
		}
		st := out[r.InstructorID]
		st.Count++
		st.Sum += int64(r.Rating)
		out[r.InstructorID] = st
	}
	return out, nil
}

type fakeOrphans struct{ *memory }

func (f fakeOrphans) Add(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orphans = append(f.orphans, key)
	return nil
}
