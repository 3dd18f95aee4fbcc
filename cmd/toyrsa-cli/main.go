// Package main provides the toyrsa-cli command line interface for toyrsa operations.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/core"
	"github.com/BackendStack21/toyrsa-go/keygen"
)

const (
	version = "1.0.0"
	appName = "toyrsa-cli"
)

// CLIConfig holds flags shared by every command.
type CLIConfig struct {
	ParamSet   string
	OutputFile string
	InputFile  string
	Verbose    bool
	Timing     bool
}

// KeyPairExport represents an exported key pair.
type KeyPairExport struct {
	Params      string         `json:"params"`
	KeyPair     toyrsa.KeyPair `json:"key_pair"`
	Fingerprint string         `json:"fingerprint"`
	CreatedAt   string         `json:"created_at"`
}

// EncryptedExport represents an exported ciphertext.
type EncryptedExport struct {
	Ciphertext  string           `json:"ciphertext"`
	PublicKey   toyrsa.PublicKey `json:"public_key"`
	Fingerprint string           `json:"fingerprint"`
	Histogram   toyrsa.Histogram `json:"histogram"`
}

// AnalysisExport represents an exported cryptanalysis result.
// MSE is omitted when no candidate was found, since JSON cannot carry +Inf.
type AnalysisExport struct {
	Strategy      toyrsa.Strategy   `json:"strategy"`
	Plaintext     string            `json:"plaintext"`
	Found         bool              `json:"found"`
	GuessedD      int64             `json:"guessed_d,omitempty"`
	GuessedPhi    int64             `json:"guessed_phi,omitempty"`
	MSE           *float64          `json:"mse,omitempty"`
	Attempts      int               `json:"attempts"`
	Rejected      int               `json:"rejected"`
	NonInvertible int               `json:"non_invertible"`
	Stop          toyrsa.StopReason `json:"stop"`
	ElapsedMS     float64           `json:"elapsed_ms"`
}

// app carries state shared by the subcommands of one invocation.
type app struct {
	config CLIConfig
	log    *log.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{log: log.New()}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Toy RSA with frequency-based cryptanalysis (NOT secure)",
		Version:       fmt.Sprintf("%s (toyrsa library %s)", version, toyrsa.Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log.SetOutput(cmd.ErrOrStderr())
			a.log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
			if a.config.Verbose {
				a.log.SetLevel(log.DebugLevel)
			}
			if _, err := core.GetParams(a.config.ParamSet); err != nil {
				return errors.Wrapf(err, "valid sets are %s", strings.Join(core.Names(), ", "))
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.config.ParamSet, "params", "p", core.Classroom.Name, "parameter set ("+strings.Join(core.Names(), ", ")+")")
	pf.StringVarP(&a.config.OutputFile, "output", "o", "", "output file (default: stdout)")
	pf.StringVarP(&a.config.InputFile, "input", "i", "", "input file")
	pf.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&a.config.Timing, "timing", "t", false, "show timing information")

	root.AddCommand(
		a.keygenCmd(),
		a.encryptCmd(),
		a.decryptCmd(),
		a.analyzeCmd(),
		a.histogramCmd(),
		a.versionCmd(),
	)

	return root
}

func (a *app) params() core.ParamSet {
	p, _ := core.GetParams(a.config.ParamSet)
	return p
}

func (a *app) timed(what string, start time.Time) {
	if a.config.Timing {
		a.log.WithField("elapsed", time.Since(start)).Info(what)
	}
}

// writeOutput writes data to the output file, or to the command's stdout.
func (a *app) writeOutput(cmd *cobra.Command, data []byte) error {
	if a.config.OutputFile == "" {
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(a.config.OutputFile, data, 0600); err != nil {
		return errors.Wrapf(err, "write %s", a.config.OutputFile)
	}
	a.log.WithField("file", a.config.OutputFile).Debug("output written")
	return nil
}

func (a *app) writeJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	return a.writeOutput(cmd, out)
}

// readInput returns the inline value if set, else the --input file, else stdin.
func (a *app) readInput(cmd *cobra.Command, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if a.config.InputFile != "" {
		data, err := os.ReadFile(a.config.InputFile)
		if err != nil {
			return "", errors.Wrapf(err, "read %s", a.config.InputFile)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "read stdin")
	}
	return string(data), nil
}

// loadKeyFromFile reads a key pair exported by keygen.
func loadKeyFromFile(filename string) (*toyrsa.KeyPair, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read key file %s", filename)
	}
	var export KeyPairExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, errors.Wrapf(err, "parse key file %s", filename)
	}
	kp := export.KeyPair
	if err := keygen.Validate(&kp); err != nil {
		return nil, errors.Wrapf(err, "key file %s", filename)
	}
	if export.Fingerprint != "" && export.Fingerprint != keygen.Fingerprint(kp.Public()) {
		return nil, errors.Errorf("key file %s: fingerprint mismatch", filename)
	}
	return &kp, nil
}

// ciphertextText accepts either raw integers or an EncryptedExport document.
func ciphertextText(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") {
		var export EncryptedExport
		if err := json.Unmarshal([]byte(trimmed), &export); err == nil {
			return export.Ciphertext
		}
	}
	return trimmed
}

// seedBytes decodes a hex seed, falling back to the raw string bytes.
func seedBytes(s string) []byte {
	if seed, err := hex.DecodeString(s); err == nil {
		return seed
	}
	return []byte(s)
}
