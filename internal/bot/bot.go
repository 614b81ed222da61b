package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"etmmbot/internal/common"
	"etmmbot/internal/group"
	"etmmbot/internal/store"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// How long a single store call may take before it is abandoned
const storeTimeout = 10 * time.Second

// How often the main loop polls the resync executor
const mainCycle = time.Minute

type Bot struct {
	token   string
	prefix  string
	catalog group.Catalog
	store   store.Store
	resync  time.Duration
}

func New(token string, prefix string, resync time.Duration, catalog group.Catalog, st store.Store) Bot {
	return Bot{
		token:   token,
		prefix:  prefix,
		catalog: catalog,
		store:   st,
		resync:  resync,
	}
}

// Connect to discord and serve commands until the context is cancelled
// or the process is interrupted
func (bot *Bot) Run(ctx context.Context) error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	// Event handlers
	discord.AddHandler(bot.ready)
	discord.AddHandler(bot.receive)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	// Keep the bot running until there is an OS interruption (ctrl + C),
	// periodically giving the resync executor a chance to run
	resyncExecutor := common.NewTimedExecutor(bot.resync, func() { bot.resyncAll(discord) })
	ticker := time.NewTicker(mainCycle)
	defer ticker.Stop()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	for {
		select {
		case <-c:
			log.Info().Msg("Received interrupt, shutting down")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if bot.resync > 0 {
				resyncExecutor.Execute()
			}
		}
	}
}

// The connection is ready: register the groups in the database once,
// then reconcile every guild. Reconciliation runs concurrently with
// command handling on purpose; a role that does not exist yet when a
// subscribe grants it is a soft failure on the subscribe side
func (bot *Bot) ready(discord *discordgo.Session, event *discordgo.Ready) {

	log.Info().Msg(fmt.Sprintf("%s connected to discord", event.User.Username))

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := RegisterGroups(ctx, bot.store, bot.catalog); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not register match making groups in the database: %s", err))
	}

	reconciler := NewReconciler(bot.catalog, discord)
	for _, guild := range event.Guilds {
		go func(guildid string) {
			reconciler.Reconcile(guildid)
		}(guild.ID)
	}
}

// Reconcile every guild the bot is currently a member of
func (bot *Bot) resyncAll(discord *discordgo.Session) {

	log.Info().Msg("Periodic resync of all guilds")
	reconciler := NewReconciler(bot.catalog, discord)
	for _, guild := range discord.State.Guilds {
		reconciler.Reconcile(guild.ID)
	}
}

func (bot *Bot) receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages and messages from other bots
	if message.Author.ID == discord.State.User.ID || message.Author.Bot {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Msg("Ignoring private message")
		return
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(message.Content, bot.prefix)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
		log.Info().Msg(fmt.Sprintf("Command understood: %s", message.Content))
		switch parseResult.command {
		case COMMAND_PING:
			bot.reply(discord, message.ChannelID, Pong())
		case COMMAND_SUBSCRIBE, COMMAND_UNSUBSCRIBE:
			bot.membership(discord, message, parseResult.command)
		case COMMAND_RESYNC:
			reconciler := NewReconciler(bot.catalog, discord)
			report := reconciler.Reconcile(message.GuildID)
			bot.reply(discord, message.ChannelID, ResyncSummary(report))
		default:
			panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
		}
	default:
		// The command is invalid input, so it contains an error message
		log.Info().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, parseResult.errorMessage))
		bot.reply(discord, message.ChannelID, InputNotValid(parseResult.errorMessage))
	}
}

// Handle a subscribe or unsubscribe command. The match making group is
// the name of the channel the command was issued in
func (bot *Bot) membership(discord *discordgo.Session, message *discordgo.MessageCreate, command int) {

	groupName, err := channelName(discord, message.GuildID, message.ChannelID)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not extract channel name for channel id %s: %s", message.ChannelID, err))
		bot.reply(discord, message.ChannelID, ChannelNameError())
		return
	}

	req := Request{
		GuildID:  message.GuildID,
		UserID:   message.Author.ID,
		UserName: message.Author.Username,
		Group:    groupName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	engine := NewEngine(bot.store, discord)
	var reply string
	if command == COMMAND_SUBSCRIBE {
		reply = engine.Subscribe(ctx, req)
	} else {
		reply = engine.Unsubscribe(ctx, req)
	}
	bot.reply(discord, message.ChannelID, reply)
}

func (bot *Bot) reply(discord Session, channelid string, content string) {
	if _, err := discord.ChannelMessageSend(channelid, content); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send reply to channel id %s: %s", channelid, err))
	}
}

func channelName(discord Session, guildid string, channelid string) (string, error) {

	channels, err := discord.GuildChannels(guildid)
	if err != nil {
		return "", fmt.Errorf("could not extract list of channels of guild id %s: %w", guildid, err)
	}
	for _, channel := range channels {
		if channel.ID == channelid {
			return channel.Name, nil
		}
	}
	return "", fmt.Errorf("no channel name found for channel id %s", channelid)
}
