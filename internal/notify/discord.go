// Package notify posts import-run summaries to a Discord channel.
package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kagabo/momoledger/internal/momo"
)

type Notifier struct {
	session   *discordgo.Session
	channelID string
}

// NewNotifier creates a Discord session for outbound messages only.
func NewNotifier(botToken, channelID string) (*Notifier, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &Notifier{session: session, channelID: channelID}, nil
}

// PostSummary sends a one-message report for a completed run.
func (n *Notifier) PostSummary(s *momo.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Import %s: %d/%d parsed, %d failed (%s)",
		s.RunID, s.Parsed, s.Total, s.Failed, s.Elapsed.Round(time.Millisecond))

	names := make([]string, 0, len(s.ByType))
	for name := range s.ByType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %d", name, s.ByType[name])
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, b.String()); err != nil {
		return fmt.Errorf("failed to post summary: %w", err)
	}
	return nil
}
