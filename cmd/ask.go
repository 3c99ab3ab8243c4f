package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kdduha/kolam-knowledge/internal/controller"
	"github.com/kdduha/kolam-knowledge/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var imageOut string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about Kolam",
	Example: `  kolam ask "What is Kolam?"
  KNOWLEDGE_USE_MOCK_DATA=true kolam ask "types of kolam"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the knowledge service once and report availability",
	RunE:  runStatus,
}

func init() {
	askCmd.Flags().StringVarP(&imageOut, "image-out", "o", "", "write the answer image to this file")
}

func newController() (*controller.Controller, func(), error) {
	src, closeSource := newSource(cfg, logger)
	factory, err := newFactory(cfg, logger, src)
	if err != nil {
		_ = closeSource()
		return nil, nil, err
	}
	ctrl, err := factory()
	if err != nil {
		_ = closeSource()
		return nil, nil, err
	}
	return ctrl, func() {
		if err := closeSource(); err != nil {
			logger.Warn("failed to close cache", zap.Error(err))
		}
	}, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctrl, cleanup, err := newController()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	ctrl.Mount(ctx)
	printAvailability(cmd, ctrl.Availability())

	ctrl.SetQuery(strings.Join(args, " "))
	snap, err := ctrl.Submit(ctx)
	if errors.Is(err, controller.ErrEmptyQuery) {
		return fmt.Errorf("question is empty")
	}
	if err != nil {
		return err
	}

	if snap.Phase == controller.PhaseFailed {
		return errors.New(snap.Error)
	}
	if snap.Answer == nil {
		return errors.New("query superseded before it resolved")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, snap.Answer.Explanation)

	if snap.Answer.HasImage() {
		if err := render.Check(snap.Answer.ImageBase64); err != nil {
			logger.Warn("answer image is not displayable", zap.Error(err))
			ctrl.ReportImageError(snap.AnswerSeq)
		}
	}

	switch ctrl.Snapshot().ImageDisplay() {
	case controller.ImageRendered:
		if imageOut == "" {
			fmt.Fprintln(out, "\nAn image was generated. Use --image-out to save it.")
			return nil
		}
		data, err := base64.StdEncoding.DecodeString(snap.Answer.ImageBase64)
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
		if err := os.WriteFile(imageOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Fprintf(out, "\nImage written to %s\n", imageOut)
	case controller.ImageUndisplayable:
		fmt.Fprintln(out, "\nAn image was generated but could not be displayed.")
	default:
		fmt.Fprintln(out, "\nNo image was generated for this query.")
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctrl, cleanup, err := newController()
	if err != nil {
		return err
	}
	defer cleanup()

	ctrl.Mount(cmd.Context())
	printAvailability(cmd, ctrl.Availability())
	return nil
}

func printAvailability(cmd *cobra.Command, a controller.Availability) {
	out := cmd.ErrOrStderr()
	switch a.State {
	case controller.Available:
		fmt.Fprintf(out, "API Connected: %s\n", a.Message)
	case controller.Unavailable:
		fmt.Fprintf(out, "API Unavailable: %s (using fallback data)\n", a.Message)
	default:
		fmt.Fprintln(out, "Checking API availability...")
	}
}
