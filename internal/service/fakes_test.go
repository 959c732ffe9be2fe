package service

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/campuslink/channel-delivery-service/internal/cache"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

// Hand-rolled fakes for the store and cache contracts.

type fakeMessages struct {
	mu      sync.Mutex
	created []*model.Message

	createErr error
	list      []*model.Message
	listErr   error
}

func (f *fakeMessages) Create(_ context.Context, m *model.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMessages) ListByChannel(_ context.Context, _ uuid.UUID, _, _ int) ([]*model.Message, error) {
	return f.list, f.listErr
}

func (f *fakeMessages) DeleteByID(_ context.Context, _ uuid.UUID) error { return nil }

type fakeChannels struct {
	mu          sync.Mutex
	lastMessage map[uuid.UUID]uuid.UUID
	created     []*model.Channel
	byUser      []*model.Channel
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{lastMessage: make(map[uuid.UUID]uuid.UUID)}
}

func (f *fakeChannels) Create(_ context.Context, c *model.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, c)
	return nil
}

func (f *fakeChannels) Update(_ context.Context, _ *model.Channel) error { return nil }
func (f *fakeChannels) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (f *fakeChannels) Get(_ context.Context, _ uuid.UUID) (*model.Channel, error) {
	return nil, nil
}

func (f *fakeChannels) ListByUser(_ context.Context, _ uuid.UUID) ([]*model.Channel, error) {
	return f.byUser, nil
}

func (f *fakeChannels) SetLastMessage(_ context.Context, channelID, messageID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMessage[channelID] = messageID
	return nil
}

type fakeMemberships struct {
	mu      sync.Mutex
	records map[string]*model.Membership
	getErr  error
}

func newFakeMemberships() *fakeMemberships {
	return &fakeMemberships{records: make(map[string]*model.Membership)}
}

func (f *fakeMemberships) key(channelID, userID uuid.UUID) string {
	return channelID.String() + "|" + userID.String()
}

func (f *fakeMemberships) put(channelID, userID uuid.UUID, role model.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[f.key(channelID, userID)] = &model.Membership{
		ChannelID: channelID,
		UserID:    userID,
		Role:      role,
	}
}

func (f *fakeMemberships) Add(_ context.Context, m *model.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.key(m.ChannelID, m.UserID)
	if _, exists := f.records[key]; exists {
		return nil // mirrors ON CONFLICT DO NOTHING
	}
	f.records[key] = m
	return nil
}

func (f *fakeMemberships) Remove(_ context.Context, channelID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, f.key(channelID, userID))
	return nil
}

func (f *fakeMemberships) Get(_ context.Context, channelID, userID uuid.UUID) (*model.Membership, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[f.key(channelID, userID)], nil
}

func (f *fakeMemberships) ListByChannel(_ context.Context, channelID uuid.UUID) ([]*model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Membership
	for _, m := range f.records {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeRecent mimics the capped cache faithfully: newest first, trimmed to cap.
type fakeRecent struct {
	mu      sync.Mutex
	items   []*model.Message
	pushErr error
	listErr error
}

var _ cache.RecentMessages = (*fakeRecent)(nil)

func (f *fakeRecent) Push(_ context.Context, msg *model.Message) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]*model.Message{msg}, f.items...)
	if len(f.items) > cache.RecentCap {
		f.items = f.items[:cache.RecentCap]
	}
	return nil
}

func (f *fakeRecent) List(_ context.Context, _ uuid.UUID) ([]*model.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Message(nil), f.items...), nil
}

type published struct {
	topic     string
	channelID string
	payload   any
}

type fakeDispatcher struct {
	mu         sync.Mutex
	events     []published
	publishErr error
}

func (f *fakeDispatcher) Publish(_ context.Context, topic, channelID string, payload any) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{topic: topic, channelID: channelID, payload: payload})
	return nil
}

func (f *fakeDispatcher) Publisher() message.Publisher { return nil }

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
