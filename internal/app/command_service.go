package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/issues"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/markdown"
)

const (
	commandCreate   = "/create"
	commandProjects = "/projects"
	commandStatus   = "/status"
	commandStart    = "/start"
	commandStop     = "/stop"
	commandHelp     = "/help"
)

const (
	commandList = "📋 *Available Commands\\:*\n" +
		"`/create <summary> @PROJECT_ID` \\- Create a new issue\n" +
		"`/projects` \\- Show available projects\n" +
		"`/status` \\- Show bot status\n" +
		"`/start` \\- Start or resume notification polling\n" +
		"`/stop` \\- Stop notification polling\n" +
		"`/help` \\- Show this list\n"

	projectTip = "💡 *Tip\\:* Use `/projects` first to see available project IDs\\!"

	createUsage = "Usage\\: `/create Your issue summary @PROJECT_ID`\n\n" +
		"⚠️ *Required\\:* You must specify a project ID\\!\n" +
		"Use `/projects` to see available projects"

	welcomeMessage = "🤖 *Welcome to YouTrack Messenger Bot\\!*\n\n" +
		"I can help you manage YouTrack issues directly from Telegram\\.\n\n" +
		commandList + "\n" +
		"⚠️ *Important\\:* You must specify a project ID when creating issues\\!\n" +
		"💡 *Example\\:* `/create Fix login bug @0\\-0`\n" +
		projectTip + "\n\n" +
		"Let's get started\\! 🚀"

	schedulerDisabledNote = "⛔ Automatic notifications are disabled in the configuration\\."
)

// CommandService answers chat commands sent to the bot.
type CommandService struct {
	issues    issues.IssueCreator
	messenger notifications.Messenger
	scheduler bot.SchedulerControl
	records   notifications.SentRecordService
	baseURL   string
	logger    logger.Logger
}

// NewCommandService creates a CommandService. baseURL is used to build issue links.
func NewCommandService(
	issueCreator issues.IssueCreator,
	messenger notifications.Messenger,
	scheduler bot.SchedulerControl,
	records notifications.SentRecordService,
	baseURL string,
	logger logger.Logger,
) (*CommandService, error) {
	if issueCreator == nil || messenger == nil || scheduler == nil || records == nil {
		return nil, fmt.Errorf("issue creator, messenger, scheduler and sent record service are required")
	}
	return &CommandService{
		issues:    issueCreator,
		messenger: messenger,
		scheduler: scheduler,
		records:   records,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}, nil
}

// HandleMessage routes text to a command and replies in chatID.
func (c *CommandService) HandleMessage(ctx context.Context, text, chatID, userID string) error {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}
	command := commandName(text)
	c.logger.Info("command received", "command", command, "chat_id", chatID, "user_id", userID)

	reply := c.dispatch(ctx, command, text)

	if err := c.messenger.SendToChat(ctx, chatID, reply); err != nil {
		return fmt.Errorf("failed to reply to %s: %w", command, err)
	}
	return nil
}

// dispatch builds the reply for command. Anything starting with /create
// is a create request, as in "/create@MyBot".
func (c *CommandService) dispatch(ctx context.Context, command, text string) string {
	if strings.HasPrefix(command, commandCreate) {
		return c.create(ctx, createArgs(text))
	}

	switch command {
	case commandProjects:
		return c.projects(ctx)
	case commandStatus:
		return c.status(ctx)
	case commandStart:
		c.scheduler.Start()
		if !c.scheduler.Status().Enabled {
			return welcomeMessage + "\n\n" + schedulerDisabledNote
		}
		return welcomeMessage
	case commandStop:
		if c.scheduler.Stop() {
			return "⏹️ Notification scheduler stopped\\. Use `/start` to resume\\."
		}
		return "ℹ️ Notification scheduler is already stopped\\."
	case commandHelp:
		return commandList + "\n" + projectTip
	default:
		return "❓ *Unknown command\\:* `" + markdown.Code(text) + "`\n\n" + commandList + "\n" + projectTip
	}
}

func (c *CommandService) create(ctx context.Context, args string) string {
	summary, projectID := ParseCreateArgs(args)
	if summary == "" {
		return "❌ Please provide a summary for the issue\\.\n\n" + createUsage
	}
	if projectID == "" {
		return "❌ Please specify a project ID\\.\n\n" + createUsage
	}

	created, err := c.issues.CreateIssue(ctx, summary, projectID)
	if err != nil {
		c.logger.Error("failed to create issue", "project", projectID, "error", err)
		return "❌ Failed to create issue\\: " + markdown.Escape(err.Error())
	}

	projectName := projectID
	if projects, err := c.issues.AvailableProjects(ctx); err != nil {
		c.logger.Warn("failed to fetch projects for display", "error", err)
	} else if p, ok := issues.FindProject(projects, projectID); ok {
		projectName = p.Name
	}

	displayID := created.DisplayID()
	c.logger.Info("issue created", "issue_id", displayID, "project", projectID)
	return fmt.Sprintf("✅ Issue created successfully\\!\n\n"+
		"*Issue ID\\:* `%s`\n"+
		"*Summary\\:* %s\n"+
		"*Project\\:* %s\n"+
		"*Link\\:* [Open Issue](%s)",
		markdown.Code(displayID),
		markdown.Escape(summary),
		markdown.Escape(projectName),
		markdown.URL(c.baseURL+"/issue/"+displayID),
	)
}

func (c *CommandService) projects(ctx context.Context) string {
	projects, err := c.issues.AvailableProjects(ctx)
	if err != nil {
		return "❌ Failed to fetch projects\\: " + markdown.Escape(err.Error())
	}
	if len(projects) == 0 {
		return "❌ No projects found or failed to fetch projects"
	}

	var sb strings.Builder
	sb.WriteString("🏗️ *Available Projects\\:*\n\n")
	for _, p := range projects {
		fmt.Fprintf(&sb, "• *%s* \\- `%s`\n", markdown.Escape(p.Name), markdown.Code(p.ID))
	}
	fmt.Fprintf(&sb, "\n*Example\\:* `/create Fix login bug @%s`", markdown.Code(projects[0].ID))
	return sb.String()
}

func (c *CommandService) status(ctx context.Context) string {
	botStatus := "✅ Online"
	var youTrackStatus, errorLine string
	projects, err := c.issues.AvailableProjects(ctx)
	switch {
	case err != nil:
		botStatus = "⚠️ Partial"
		youTrackStatus = "❌ Connection Failed"
		errorLine = "\n\n*Error\\:* " + markdown.Escape(err.Error())
	case len(projects) == 0:
		youTrackStatus = "❌ Disconnected"
	default:
		youTrackStatus = "✅ Connected"
	}

	scheduler := c.scheduler.Status()
	var schedulerStatus string
	switch {
	case !scheduler.Enabled:
		schedulerStatus = "⛔ Disabled"
	case scheduler.Paused && scheduler.PausedUntil != nil:
		schedulerStatus = "⏸️ Paused until " + markdown.Escape(scheduler.PausedUntil.Format(healthTimeLayout))
	case scheduler.Paused:
		schedulerStatus = "⏸️ Paused"
	case scheduler.Running:
		schedulerStatus = "▶️ Running"
	default:
		schedulerStatus = "⏹️ Stopped"
	}

	var dbStatus string
	if count, err := c.records.Count(ctx); err != nil {
		dbStatus = "❌ " + markdown.Escape(err.Error())
	} else {
		dbStatus = fmt.Sprintf("✅ Connected \\(%d sent\\)", count)
	}

	cursor, err := c.records.Cursor(ctx)
	if err != nil || cursor == "" {
		cursor = "none"
	}

	return "🤖 *Bot Status\\:* " + botStatus + "\n" +
		"📡 *YouTrack\\:* " + youTrackStatus + "\n" +
		"⏰ *Scheduler\\:* " + schedulerStatus + "\n" +
		"🩺 *Health\\:* " + scheduler.Health.Status + "\n" +
		"💾 *Database\\:* " + dbStatus + "\n" +
		"🕒 *Cursor\\:* `" + markdown.Code(cursor) + "`\n" +
		"🌐 *Webhook\\:* Active" +
		errorLine
}

// commandName returns the lowercased first word without a @botname suffix.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	head := strings.ToLower(fields[0])
	if i := strings.Index(head, "@"); i > 0 {
		head = head[:i]
	}
	return head
}

// createArgs returns what follows /create, or /create@botname, in text.
func createArgs(text string) string {
	if commandName(text) == commandCreate {
		head := strings.Fields(text)[0]
		return strings.TrimSpace(text[len(head):])
	}
	return strings.TrimSpace(text[len(commandCreate):])
}

// ParseCreateArgs splits "summary @PROJECT" into its parts. The project is
// empty when no "@" with a following value is present.
func ParseCreateArgs(content string) (summary, projectID string) {
	content = strings.TrimSpace(content)
	if !strings.Contains(content, "@") {
		return content, ""
	}

	parts := strings.Split(content, "@")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 2 {
		return content, ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
