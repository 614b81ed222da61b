package bot

import (
	"context"
	"fmt"

	"etmmbot/internal/group"
	"etmmbot/internal/store"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ResourceStatus int

const (
	StatusPresent ResourceStatus = iota
	StatusCreated
	StatusFailed
)

func (status ResourceStatus) String() string {
	switch status {
	case StatusPresent:
		return "already present"
	case StatusCreated:
		return "created"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result of reconciling one group on one guild
type ReportItem struct {
	Group      string
	Channel    ResourceStatus
	ChannelErr error
	Role       ResourceStatus
	RoleErr    error
}

// Result of one reconciliation pass over a guild
type Report struct {
	RunID   string
	GuildID string
	Items   []ReportItem
}

func (report Report) Created() int {
	return report.count(StatusCreated)
}

func (report Report) Present() int {
	return report.count(StatusPresent)
}

func (report Report) Failed() int {
	return report.count(StatusFailed)
}

func (report Report) count(status ResourceStatus) int {
	n := 0
	for _, item := range report.Items {
		if item.Channel == status {
			n++
		}
		if item.Role == status {
			n++
		}
	}
	return n
}

// The guild reconciler makes sure every match making group has exactly
// one text channel and one hoisted role on a guild, creating only what
// is absent. Running it twice against an unchanged guild performs zero
// creation calls the second time
type Reconciler struct {
	catalog group.Catalog
	discord Session
}

func NewReconciler(catalog group.Catalog, discord Session) Reconciler {
	return Reconciler{catalog: catalog, discord: discord}
}

// Reconcile every group of the catalog against the guild, in catalog
// order. Failures are recorded per item and never abort the pass
func (reconciler *Reconciler) Reconcile(guildid string) Report {

	report := Report{RunID: uuid.NewString(), GuildID: guildid}
	log.Info().Msg(fmt.Sprintf("Reconciling guild %s (run %s)", guildid, report.RunID))

	for _, definition := range reconciler.catalog.Groups() {
		item := ReportItem{Group: definition.Name}
		item.Channel, item.ChannelErr = reconciler.ensureChannel(guildid, definition.Name)
		if item.ChannelErr != nil {
			log.Error().Msg(fmt.Sprintf("Could not reconcile channel %s on guild %s: %s", definition.Name, guildid, item.ChannelErr))
		} else {
			log.Debug().Msg(fmt.Sprintf("Channel %s on guild %s: %s", definition.Name, guildid, item.Channel))
		}
		item.Role, item.RoleErr = reconciler.ensureRole(guildid, definition.Name)
		if item.RoleErr != nil {
			log.Error().Msg(fmt.Sprintf("Could not reconcile role %s on guild %s: %s", definition.Name, guildid, item.RoleErr))
		} else {
			log.Debug().Msg(fmt.Sprintf("Role %s on guild %s: %s", definition.Name, guildid, item.Role))
		}
		report.Items = append(report.Items, item)
	}

	log.Info().Msg(fmt.Sprintf(
		"Reconciled guild %s (run %s): %d created, %d already present, %d failed",
		guildid, report.RunID, report.Created(), report.Present(), report.Failed(),
	))
	return report
}

// The channel list is read fresh before deciding to create, because it
// may have changed since the catalog was loaded
func (reconciler *Reconciler) ensureChannel(guildid string, name string) (ResourceStatus, error) {

	channels, err := reconciler.discord.GuildChannels(guildid)
	if err != nil {
		return StatusFailed, fmt.Errorf("could not extract list of channels of guild id %s: %w", guildid, err)
	}
	for _, channel := range channels {
		if channel.Name == name && channel.Type == discordgo.ChannelTypeGuildText {
			return StatusPresent, nil
		}
	}
	if _, err := reconciler.discord.GuildChannelCreate(guildid, name, discordgo.ChannelTypeGuildText); err != nil {
		return StatusFailed, fmt.Errorf("could not create channel %s on guild id %s: %w", name, guildid, err)
	}
	return StatusCreated, nil
}

// Roles are hoisted so guild members can see who belongs to which
// match making group
func (reconciler *Reconciler) ensureRole(guildid string, name string) (ResourceStatus, error) {

	roles, err := reconciler.discord.GuildRoles(guildid)
	if err != nil {
		return StatusFailed, fmt.Errorf("could not extract list of roles of guild id %s: %w", guildid, err)
	}
	for _, role := range roles {
		if role.Name == name {
			return StatusPresent, nil
		}
	}
	hoist := true
	if _, err := reconciler.discord.GuildRoleCreate(guildid, &discordgo.RoleParams{Name: name, Hoist: &hoist}); err != nil {
		return StatusFailed, fmt.Errorf("could not create role %s on guild id %s: %w", name, guildid, err)
	}
	return StatusCreated, nil
}

// Make sure every group of the catalog exists as a row in the store
// before any membership call references it. An already registered
// group is not an error
func RegisterGroups(ctx context.Context, st store.Store, catalog group.Catalog) error {

	for _, definition := range catalog.Groups() {
		outcome, err := st.AddGroup(ctx, definition.Name)
		if err != nil {
			return fmt.Errorf("could not register group %s: %w", definition.Name, err)
		}
		switch outcome {
		case store.GroupAdded:
			log.Info().Msg(fmt.Sprintf("Registered match making group %s in the database", definition.Name))
		case store.GroupPresent:
			log.Debug().Msg(fmt.Sprintf("Match making group %s is already registered in the database", definition.Name))
		}
	}
	return nil
}
