package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/moon"
)

var formatFlag string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "List the primary phases of the lunation around a date",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "output format (text, json, toml, yaml)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	format, err := moon.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	t, err := parseDate(dateFlag, time.Now())
	if err != nil {
		return err
	}

	provider := ephem.New(cfg.EphemerisMode())
	cal, err := moon.BuildCalendar(lunar.NewLocator(provider), provider.Name(), t)
	if errors.Is(err, lunar.ErrNoAnchors) {
		return err
	}
	if err != nil {
		log.Warn("%v", err)
	}

	return cal.Encode(cmd.OutOrStdout(), format)
}
