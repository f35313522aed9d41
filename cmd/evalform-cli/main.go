package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/renderers/tui"
	"github.com/goliatone/go-evalform/pkg/sink"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

func main() {
	forms := flag.String("forms", "forms", "form definition file, directory or http(s) URL")
	formID := flag.String("form", "", "form id to fill in (prompted when empty)")
	submitURL := flag.String("submit-url", "", "webhook receiving the submission (stdout if empty)")
	output := flag.String("output", "pretty", "stdout submission format: json or pretty")
	timeout := flag.Duration("timeout", sink.DefaultWebhookTimeout, "webhook timeout")
	multiline := flag.Bool("multiline", false, "open an editor for text answers")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := form.Load(ctx, *forms)
	if err != nil {
		log.Fatalf("Failed to load forms: %v", err)
	}
	if catalog.Len() == 0 {
		log.Fatalf("No forms found in %s", *forms)
	}

	driver := tui.SurveyDriver(os.Stdout)

	def, err := pickForm(ctx, driver, catalog, *formID)
	if err != nil {
		log.Fatalf("Failed to select form: %v", err)
	}

	target, err := buildSink(*submitURL, *output, *timeout)
	if err != nil {
		log.Fatalf("Failed to configure submission: %v", err)
	}

	session, err := wizard.New(def, target)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer session.Close()

	runner := tui.New(tui.WithPromptDriver(driver), tui.WithMultilineText(*multiline))
	if err := runner.Run(ctx, session); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Println("Evaluation not submitted.")
			os.Exit(1)
		}
		log.Fatalf("Evaluation failed: %v", err)
	}
}

func pickForm(ctx context.Context, driver tui.PromptDriver, catalog *form.Catalog, id string) (form.Definition, error) {
	if id = strings.TrimSpace(id); id != "" {
		def, ok := catalog.Get(id)
		if !ok {
			return form.Definition{}, fmt.Errorf("form %q not found", id)
		}
		return def, nil
	}

	all := catalog.All()
	if len(all) == 1 {
		return all[0], nil
	}
	options := make([]string, len(all))
	for i, def := range all {
		options[i] = def.Title
		if def.Metadata.Course != "" {
			options[i] += " (" + def.Metadata.Course + ")"
		}
	}
	idx, err := driver.Select(ctx, tui.SelectConfig{Message: "Which evaluation?", Options: options})
	if err != nil {
		return form.Definition{}, err
	}
	return all[idx], nil
}

func buildSink(url, output string, timeout time.Duration) (wizard.Sink, error) {
	if url = strings.TrimSpace(url); url != "" {
		webhook, err := sink.NewWebhook(url, sink.WithTimeout(timeout))
		if err != nil {
			return nil, err
		}
		return webhook, nil
	}
	switch strings.ToLower(output) {
	case "json":
		return sink.NewWriter(os.Stdout, false), nil
	case "pretty", "":
		return sink.NewWriter(os.Stdout, true), nil
	default:
		return nil, fmt.Errorf("unknown output %q", output)
	}
}
