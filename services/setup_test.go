package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type testEnv struct {
	now time.Time

	users       *mockUserStore
	instructors *mockInstructorStore
	slots       *mockSlotStore
	messages    *mockMessageStore
	reviews     *mockReviewStore
	orphans     *mockOrphanStore
	objects     *mockObjectStore
	hub         *websocket.Hub

	booking    *BookingService
	chat       *ChatService
	review     *ReviewService
	listing    *ListingService
	instructor *InstructorService
	admins     AdminPolicy
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	env := &testEnv{
		now:         time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC),
		users:       newMockUserStore(),
		instructors: newMockInstructorStore(),
		messages:    &mockMessageStore{},
		reviews:     newMockReviewStore(),
		orphans:     &mockOrphanStore{},
		objects:     newMockObjectStore(),
		hub:         websocket.NewHub(logger),
		admins:      NewAdminPolicy([]string{"reviewer@drive.test"}),
	}
	env.slots = newMockSlotStore(env.instructors)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go env.hub.Run(ctx)

	clock := func() time.Time { return env.now }
	env.booking = NewBookingService(env.slots, env.instructors, env.reviews, logger)
	env.booking.now = clock
	env.chat = NewChatService(env.slots, env.messages, env.hub, logger)
	env.chat.now = clock
	env.review = NewReviewService(env.slots, env.reviews, logger)
	env.review.now = clock
	env.listing = NewListingService(env.instructors, env.review, env.booking, env.admins)
	env.instructor = NewInstructorService(env.instructors, env.orphans, env.objects, logger)
	env.instructor.now = clock
	return env
}

func (e *testEnv) addInstructor(status models.ApprovalStatus, city, neighborhood string) (models.Instructor, Principal) {
	actor := Principal{UserID: uuid.New(), Email: city + "@drive.test", Role: models.RoleInstructor}
	inst := e.instructors.put(models.Instructor{
		UserID:       actor.UserID,
		FullName:     "Instructor " + city,
		CPF:          "123.456.789-00",
		City:         city,
		Neighborhood: neighborhood,
		Status:       status,
	})
	return inst, actor
}

func newStudent() Principal {
	id := uuid.New()
	return Principal{UserID: id, Email: id.String() + "@student.test", Role: models.RoleStudent}
}

// seedSlot stores a slot directly, bypassing the state machine.
func (e *testEnv) seedSlot(inst models.Instructor, at time.Time, state models.SlotState, student *Principal) models.Slot {
	slot := models.Slot{
		InstructorID:  inst.ID,
		ScheduledTime: at,
		State:         state,
		Version:       1,
	}
	if student != nil {
		id := student.UserID
		slot.StudentID = &id
	}
	_ = e.slots.Create(context.Background(), &slot)
	return slot
}
