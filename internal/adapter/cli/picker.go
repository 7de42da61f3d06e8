package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	usecaseErrors "github.com/clientbrief/clientbrief/internal/usecase/errors"
	"github.com/clientbrief/clientbrief/pkg/config"
)

// pickInteractively asks the operator to choose a transcript and a template.
// It only runs when the tool was started with no arguments on a terminal.
// The report type follows from the chosen template.
func pickInteractively(cfg *config.Config, opts *runOptions) error {
	transcripts, err := filepath.Glob(filepath.Join(cfg.Paths.FixturesDir, "*.txt"))
	if err != nil || len(transcripts) == 0 {
		return errors.ErrInputInvalid(usecaseErrors.ErrNoFixtures.Error())
	}
	templates, err := filepath.Glob(filepath.Join(cfg.Paths.TemplatesDir, "*.html"))
	if err != nil || len(templates) == 0 {
		return errors.ErrInputInvalid(usecaseErrors.ErrNoTemplates.Error())
	}

	in := bufio.NewReader(os.Stdin)

	transcript, err := promptSelect(in, "Select a transcript:", transcripts)
	if err != nil {
		return err
	}
	tmpl, err := promptSelect(in, "Select a template:", templates)
	if err != nil {
		return err
	}

	opts.input = transcript
	opts.template = tmpl
	opts.reportType = entities.ReportTypeClient
	if filepath.Base(tmpl) == entities.ReportTypeDesign.TemplateName() {
		opts.reportType = entities.ReportTypeDesign
	}
	return nil
}

func promptSelect(in *bufio.Reader, title string, options []string) (string, error) {
	fmt.Printf("\n%s\n", title)
	for i, option := range options {
		fmt.Printf("%d. %s\n", i+1, option)
	}
	fmt.Println("0. Enter a path manually")

	for {
		fmt.Print("Choose a number: ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", errors.ErrInputInvalid("selection aborted")
		}
		choice := strings.TrimSpace(line)

		if choice == "0" {
			fmt.Print("Enter the file path: ")
			line, err = in.ReadString('\n')
			if err != nil {
				return "", errors.ErrInputInvalid("selection aborted")
			}
			path := strings.TrimSpace(line)
			if path == "" {
				fmt.Println("Empty path. Try again.")
				continue
			}
			return path, nil
		}

		if idx, convErr := strconv.Atoi(choice); convErr == nil && idx >= 1 && idx <= len(options) {
			return options[idx-1], nil
		}
		fmt.Println("Invalid choice. Try again.")
	}
}
