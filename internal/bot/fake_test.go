package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"etmmbot/internal/group"
	"etmmbot/internal/store"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, names ...string) group.Catalog {
	t.Helper()
	catalog := group.NewCatalog()
	for _, name := range names {
		definition, err := group.New(name, map[string]int{"Axis": 1, "Allies": 1})
		require.NoError(t, err)
		require.NoError(t, catalog.Add(definition))
	}
	return catalog
}

// In-memory discord session recording every call
type fakeSession struct {
	mu               sync.Mutex
	channels         map[string][]*discordgo.Channel
	roles            map[string][]*discordgo.Role
	channelCreates   int
	roleCreates      int
	roleAdds         []string
	roleRemoves      []string
	sent             []string
	listChannelsErr  error
	listRolesErr     error
	createChannelErr map[string]error
	createRoleErr    map[string]error
	roleAddErr       error
	roleRemoveErr    error
	calls            *[]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		channels:         map[string][]*discordgo.Channel{},
		roles:            map[string][]*discordgo.Role{},
		createChannelErr: map[string]error{},
		createRoleErr:    map[string]error{},
	}
}

func (s *fakeSession) addChannel(guildid string, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[guildid] = append(s.channels[guildid], &discordgo.Channel{
		ID:   name + "-channel-id",
		Name: name,
		Type: discordgo.ChannelTypeGuildText,
	})
}

func (s *fakeSession) addRole(guildid string, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[guildid] = append(s.roles[guildid], &discordgo.Role{ID: name + "-role-id", Name: name})
}

func (s *fakeSession) record(call string) {
	if s.calls != nil {
		*s.calls = append(*s.calls, call)
	}
}

func (s *fakeSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listChannelsErr != nil {
		return nil, s.listChannelsErr
	}
	return append([]*discordgo.Channel{}, s.channels[guildID]...), nil
}

func (s *fakeSession) GuildChannelCreate(guildID string, name string, ctype discordgo.ChannelType, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createChannelErr[name]; err != nil {
		return nil, err
	}
	s.channelCreates++
	channel := &discordgo.Channel{ID: name + "-channel-id", Name: name, Type: ctype}
	s.channels[guildID] = append(s.channels[guildID], channel)
	return channel, nil
}

func (s *fakeSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listRolesErr != nil {
		return nil, s.listRolesErr
	}
	return append([]*discordgo.Role{}, s.roles[guildID]...), nil
}

func (s *fakeSession) GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createRoleErr[data.Name]; err != nil {
		return nil, err
	}
	s.roleCreates++
	role := &discordgo.Role{ID: data.Name + "-role-id", Name: data.Name}
	s.roles[guildID] = append(s.roles[guildID], role)
	return role, nil
}

func (s *fakeSession) GuildMemberRoleAdd(guildID string, userID string, roleID string, options ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roleAddErr != nil {
		return s.roleAddErr
	}
	s.record("role-add")
	s.roleAdds = append(s.roleAdds, fmt.Sprintf("%s/%s/%s", guildID, userID, roleID))
	return nil
}

func (s *fakeSession) GuildMemberRoleRemove(guildID string, userID string, roleID string, options ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roleRemoveErr != nil {
		return s.roleRemoveErr
	}
	s.record("role-remove")
	s.roleRemoves = append(s.roleRemoves, fmt.Sprintf("%s/%s/%s", guildID, userID, roleID))
	return nil
}

func (s *fakeSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, content)
	return &discordgo.Message{Content: content}, nil
}

// Store returning scripted outcomes, recording every call
type scriptedStore struct {
	groupOutcome  store.GroupOutcome
	groupErr      error
	addOutcome    store.MemberOutcome
	addErr        error
	removeOutcome store.MemberOutcome
	removeErr     error
	addGroupCalls []string
	addCalls      []string
	removeCalls   []string
	calls         *[]string
}

func (s *scriptedStore) record(call string) {
	if s.calls != nil {
		*s.calls = append(*s.calls, call)
	}
}

func (s *scriptedStore) AddGroup(ctx context.Context, name string) (store.GroupOutcome, error) {
	s.addGroupCalls = append(s.addGroupCalls, name)
	return s.groupOutcome, s.groupErr
}

func (s *scriptedStore) AddMember(ctx context.Context, userID string, group string) (store.MemberOutcome, error) {
	s.record("store-add")
	s.addCalls = append(s.addCalls, userID+"/"+group)
	return s.addOutcome, s.addErr
}

func (s *scriptedStore) RemoveMember(ctx context.Context, userID string, group string) (store.MemberOutcome, error) {
	s.record("store-remove")
	s.removeCalls = append(s.removeCalls, userID+"/"+group)
	return s.removeOutcome, s.removeErr
}

// Store with real membership semantics, serializing per call the way
// the SQL functions do
type serializingStore struct {
	mu      sync.Mutex
	groups  map[string]struct{}
	members map[string]struct{}
}

func newSerializingStore(groups ...string) *serializingStore {
	s := &serializingStore{groups: map[string]struct{}{}, members: map[string]struct{}{}}
	for _, group := range groups {
		s.groups[group] = struct{}{}
	}
	return s
}

func (s *serializingStore) AddGroup(ctx context.Context, name string) (store.GroupOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[name]; ok {
		return store.GroupPresent, nil
	}
	s.groups[name] = struct{}{}
	return store.GroupAdded, nil
}

func (s *serializingStore) AddMember(ctx context.Context, userID string, group string) (store.MemberOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group]; !ok {
		return store.MemberUnknownGroup, nil
	}
	key := userID + "/" + group
	if _, ok := s.members[key]; ok {
		return store.MemberNoChange, nil
	}
	s.members[key] = struct{}{}
	return store.MemberOK, nil
}

func (s *serializingStore) RemoveMember(ctx context.Context, userID string, group string) (store.MemberOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group]; !ok {
		return store.MemberUnknownGroup, nil
	}
	key := userID + "/" + group
	if _, ok := s.members[key]; !ok {
		return store.MemberNoChange, nil
	}
	delete(s.members, key)
	return store.MemberOK, nil
}
