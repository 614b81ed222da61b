package bot

import (
	"context"
	"errors"
	"fmt"

	"etmmbot/internal/store"

	"github.com/rs/zerolog/log"
)

// A subscribe or unsubscribe request. The group is the name of the
// channel the command was issued in, never a command argument
type Request struct {
	GuildID  string
	UserID   string
	UserName string
	Group    string
}

// The membership transition engine. The database is the source of
// truth for membership, so every operation mutates the store first and
// touches the discord role second; a failed role call degrades the
// reply instead of rolling the store back
type Engine struct {
	store   store.Store
	discord Session
}

func NewEngine(st store.Store, discord Session) Engine {
	return Engine{store: st, discord: discord}
}

// Subscribe the user to the match making group and grant the matching
// role. Returns the single reply for this invocation
func (engine *Engine) Subscribe(ctx context.Context, req Request) string {

	outcome, err := engine.store.AddMember(ctx, req.UserID, req.Group)
	if err != nil {
		var unknown *store.UnknownOutcomeError
		if errors.As(err, &unknown) {
			log.Error().Msg(fmt.Sprintf("Unknown outcome subscribing user %s to group %s: %s", req.UserID, req.Group, err))
			return InternalError(unknown.Function)
		}
		// A transport failure behaves like a generic store failure
		log.Error().Msg(fmt.Sprintf("Could not subscribe user %s to group %s: %s", req.UserID, req.Group, err))
		outcome = store.MemberStoreFailure
	}

	switch outcome {
	case store.MemberOK:
		log.Info().Msg(fmt.Sprintf("User %s subscribed to group %s", req.UserID, req.Group))
		if err := engine.grantRole(req); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not grant role %s to user %s: %s", req.Group, req.UserID, err))
			return SubscribedWithoutRole(req.UserName, req.Group)
		}
		return Subscribed(req.UserName, req.Group)
	case store.MemberStoreFailure:
		return AddFailed(req.UserName)
	case store.MemberUnknownGroup:
		return GroupDoesNotExist(req.Group)
	case store.MemberNoChange:
		return AlreadySubscribed(req.UserName, req.Group)
	default:
		log.Error().Msg(fmt.Sprintf("Outcome %d is not one of the possible ones", outcome))
		return InternalError("add_mm_member")
	}
}

// Unsubscribe the user from the match making group and remove the
// matching role. Returns the single reply for this invocation
func (engine *Engine) Unsubscribe(ctx context.Context, req Request) string {

	outcome, err := engine.store.RemoveMember(ctx, req.UserID, req.Group)
	if err != nil {
		var unknown *store.UnknownOutcomeError
		if errors.As(err, &unknown) {
			log.Error().Msg(fmt.Sprintf("Unknown outcome unsubscribing user %s from group %s: %s", req.UserID, req.Group, err))
			return InternalError(unknown.Function)
		}
		log.Error().Msg(fmt.Sprintf("Could not unsubscribe user %s from group %s: %s", req.UserID, req.Group, err))
		outcome = store.MemberStoreFailure
	}

	switch outcome {
	case store.MemberOK:
		log.Info().Msg(fmt.Sprintf("User %s unsubscribed from group %s", req.UserID, req.Group))
		if err := engine.revokeRole(req); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not remove role %s from user %s: %s", req.Group, req.UserID, err))
			return UnsubscribedWithoutRole(req.UserName, req.Group)
		}
		return Unsubscribed(req.UserName, req.Group)
	case store.MemberStoreFailure:
		return RemoveFailed(req.UserName)
	case store.MemberUnknownGroup:
		return GroupDoesNotExist(req.Group)
	case store.MemberNoChange:
		return NotSubscribed(req.UserName, req.Group)
	default:
		log.Error().Msg(fmt.Sprintf("Outcome %d is not one of the possible ones", outcome))
		return InternalError("remove_mm_member")
	}
}

func (engine *Engine) grantRole(req Request) error {

	roleid, err := engine.roleId(req.GuildID, req.Group)
	if err != nil {
		return err
	}
	return engine.discord.GuildMemberRoleAdd(req.GuildID, req.UserID, roleid)
}

func (engine *Engine) revokeRole(req Request) error {

	roleid, err := engine.roleId(req.GuildID, req.Group)
	if err != nil {
		return err
	}
	return engine.discord.GuildMemberRoleRemove(req.GuildID, req.UserID, roleid)
}

// The role list is read fresh on every call: the role may have been
// created by a reconciliation pass running concurrently with this command
func (engine *Engine) roleId(guildid string, roleName string) (string, error) {

	roles, err := engine.discord.GuildRoles(guildid)
	if err != nil {
		return "", fmt.Errorf("could not extract list of roles of guild id %s: %w", guildid, err)
	}
	for _, role := range roles {
		if role.Name == roleName {
			return role.ID, nil
		}
	}
	return "", fmt.Errorf("no role id found for role name %s", roleName)
}
