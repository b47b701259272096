package reports

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
)

type BadgeCmd struct {
	List  BadgeListCmd  `cmd:"" help:"List badges and progress toward them."`
	Check BadgeCheckCmd `cmd:"" help:"Award any badges you now qualify for."`
}

type BadgeListCmd struct {
	Earned bool `help:"Only show earned badges."`
}

func (c *BadgeListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	progress, err := ctx.Service.BadgeProgress(context.Background(), ctx.UserID())
	if err != nil {
		return err
	}

	earned := 0
	for _, p := range progress {
		if p.Earned {
			earned++
		}
	}
	ctx.Printf("Badges earned: %d/%d\n\n", earned, len(progress))

	for _, p := range progress {
		if c.Earned && !p.Earned {
			continue
		}
		ctx.Println(formatBadge(p))
	}
	return nil
}

func formatBadge(p models.BadgeProgress) string {
	b := p.Badge
	line := "[ ] "
	if p.Earned {
		line = "[x] "
	}
	if b.Icon != "" {
		line += b.Icon + " "
	}
	line += b.Name
	if b.Rarity != "" && b.Rarity != models.RarityCommon {
		line += " (" + string(b.Rarity) + ")"
	}

	switch {
	case p.Earned:
		if p.EarnedAt != nil {
			line += "  earned " + p.EarnedAt.Format(constants.DateFormat)
		}
	case b.IsPremium:
		line += "  premium"
	default:
		line += "  " + progressBar(p.Progress, 10)
	}

	if b.Description != "" {
		line += "\n      " + b.Description
	}
	return line
}

// progressBar renders percent as a fixed-width bar followed by the number.
func progressBar(percent, width int) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return fmt.Sprintf("%s %d%%", string(bar), percent)
}

type BadgeCheckCmd struct{}

func (c *BadgeCheckCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	earned, err := ctx.Service.EvaluateBadges(context.Background(), ctx.UserID())
	if err != nil {
		return err
	}

	if len(earned) == 0 {
		ctx.Println("No new badges.")
		return nil
	}
	for _, def := range earned {
		ctx.Println(notifier.BadgeMessage(def))
	}
	return nil
}
