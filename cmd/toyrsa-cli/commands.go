package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/attack"
	"github.com/BackendStack21/toyrsa-go/cipher"
	"github.com/BackendStack21/toyrsa-go/core"
	"github.com/BackendStack21/toyrsa-go/frequency"
	"github.com/BackendStack21/toyrsa-go/keygen"
)

// ============================================================================
// Key Generation
// ============================================================================

func (a *app) keygenCmd() *cobra.Command {
	var (
		minPrime, maxPrime int64
		p, q, e            int64
		seed               string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new key pair",
		Example: `  toyrsa-cli keygen --output keypair.json
  toyrsa-cli keygen --params wide --seed 00112233445566778899aabbccddeeff
  toyrsa-cli keygen --prime-p 11 --prime-q 13 --exponent 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.params()
			if cmd.Flags().Changed("min") {
				params.MinPrime = minPrime
			}
			if cmd.Flags().Changed("max") {
				params.MaxPrime = maxPrime
			}

			start := time.Now()
			var kp *toyrsa.KeyPair
			var err error
			switch {
			case p != 0 || q != 0:
				kp, err = keygen.FromPrimes(p, q, e)
			case seed != "":
				kp, err = keygen.GenerateKeyPairFromSeed(params, seedBytes(seed))
			default:
				kp, err = keygen.GenerateKeyPair(params.MinPrime, params.MaxPrime)
			}
			if err != nil {
				return errors.Wrap(err, "generate key pair")
			}
			a.timed("key generation", start)

			a.log.WithFields(log.Fields{
				"p": kp.P, "q": kp.Q, "n": kp.N, "phi": kp.Phi, "e": kp.E, "d": kp.D,
			}).Debugf("phi(n) = (p - 1)(q - 1) = %d * %d = %d", kp.P-1, kp.Q-1, kp.Phi)

			return a.writeJSON(cmd, KeyPairExport{
				Params:      params.Name,
				KeyPair:     *kp,
				Fingerprint: keygen.Fingerprint(kp.Public()),
				CreatedAt:   time.Now().UTC().Format(time.RFC3339),
			})
		},
	}
	f := cmd.Flags()
	f.Int64Var(&minPrime, "min", 0, "smallest prime to draw (default from --params)")
	f.Int64Var(&maxPrime, "max", 0, "largest prime to draw (default from --params)")
	f.Int64Var(&p, "prime-p", 0, "use this prime p instead of drawing one")
	f.Int64Var(&q, "prime-q", 0, "use this prime q instead of drawing one")
	f.Int64Var(&e, "exponent", 0, "public exponent for --prime-p/--prime-q (default: chosen)")
	f.StringVar(&seed, "seed", "", "hex or text seed for reproducible keys")
	return cmd
}

// ============================================================================
// Encryption
// ============================================================================

func (a *app) encryptCmd() *cobra.Command {
	var (
		keyFile, message string
		e, n             int64
	)
	cmd := &cobra.Command{
		Use:     "encrypt",
		Aliases: []string{"enc"},
		Short:   "Encrypt a message with a public key",
		Example: `  toyrsa-cli encrypt --key keypair.json --message "attack at dawn"
  toyrsa-cli encrypt --e 7 --n 143 --input message.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := a.publicKey(keyFile, e, n)
			if err != nil {
				return err
			}
			text, err := a.readInput(cmd, message)
			if err != nil {
				return err
			}

			start := time.Now()
			ct, err := cipher.Encrypt(text, pk.E, pk.N)
			if err != nil {
				return errors.Wrap(err, "encrypt")
			}
			a.timed("encryption", start)

			return a.writeJSON(cmd, EncryptedExport{
				Ciphertext:  ct.String(),
				PublicKey:   pk,
				Fingerprint: keygen.Fingerprint(pk),
				Histogram:   cipher.TokenHistogram(ct),
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&keyFile, "key", "k", "", "key pair file from keygen")
	f.StringVarP(&message, "message", "m", "", "message to encrypt")
	f.Int64Var(&e, "e", 0, "public exponent (instead of --key)")
	f.Int64Var(&n, "n", 0, "modulus (instead of --key)")
	return cmd
}

func (a *app) decryptCmd() *cobra.Command {
	var (
		keyFile, ciphertext string
		d, n                int64
	)
	cmd := &cobra.Command{
		Use:     "decrypt",
		Aliases: []string{"dec"},
		Short:   "Decrypt a ciphertext with a private key",
		Example: `  toyrsa-cli decrypt --key keypair.json --ciphertext "6 57"
  toyrsa-cli decrypt --d 103 --n 143 --input encrypted.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sk toyrsa.PrivateKey
			if keyFile != "" {
				kp, err := loadKeyFromFile(keyFile)
				if err != nil {
					return err
				}
				sk = kp.Private()
			} else {
				if !cmd.Flags().Changed("d") || !cmd.Flags().Changed("n") {
					return errors.New("either --key or both --d and --n are required")
				}
				sk = toyrsa.PrivateKey{D: d, N: n}
			}

			raw, err := a.readInput(cmd, ciphertext)
			if err != nil {
				return err
			}
			plain, skipped, err := cipher.DecryptString(ciphertextText(raw), sk.D, sk.N)
			if err != nil {
				return errors.Wrap(err, "decrypt")
			}
			for _, s := range skipped {
				a.log.WithFields(log.Fields{"token": s.Token, "reason": s.Err}).Warn("skipped invalid ciphertext token")
			}
			return a.writeOutput(cmd, []byte(plain))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&keyFile, "key", "k", "", "key pair file from keygen")
	f.StringVarP(&ciphertext, "ciphertext", "c", "", "ciphertext integers")
	f.Int64Var(&d, "d", 0, "private exponent (instead of --key)")
	f.Int64Var(&n, "n", 0, "modulus (instead of --key)")
	return cmd
}

// ============================================================================
// Cryptanalysis
// ============================================================================

func (a *app) analyzeCmd() *cobra.Command {
	var (
		keyFile, ciphertext, strategy string
		e, n, searchCap               int64
		attemptCap, workers           int
		threshold                     float64
		timeout                       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Recover plaintext from ciphertext and the public key only",
		Example: `  toyrsa-cli analyze --e 17 --n 143 --ciphertext "2 50 49 104"
  toyrsa-cli analyze --key keypair.json --input encrypted.json --strategy exhaustive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := a.publicKey(keyFile, e, n)
			if err != nil {
				return err
			}
			raw, err := a.readInput(cmd, ciphertext)
			if err != nil {
				return err
			}
			ct, skipped := cipher.ParseCiphertextFor(ciphertextText(raw), pk.N)
			for _, s := range skipped {
				a.log.WithFields(log.Fields{"token": s.Token, "reason": s.Err}).Warn("skipped invalid ciphertext token")
			}

			params := a.params()
			if cmd.Flags().Changed("search-cap") {
				params.SearchCap = searchCap
			}
			if cmd.Flags().Changed("attempt-cap") {
				params.AttemptCap = attemptCap
			}
			if cmd.Flags().Changed("threshold") {
				params.MSEThreshold = threshold
			}
			if cmd.Flags().Changed("workers") {
				params.Workers = workers
			}
			if err := core.ValidateParams(params); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			res, err := attack.NewAnalyzer(params).Analyze(ctx, toyrsa.Strategy(strategy), ct, pk, params)
			elapsed := time.Since(start)
			if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "analyze")
			}
			a.logAnalysis(res, elapsed)
			return a.writeJSON(cmd, exportAnalysis(res, elapsed))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&keyFile, "key", "k", "", "key file; only the public part is used")
	f.StringVarP(&ciphertext, "ciphertext", "c", "", "ciphertext integers")
	f.StringVarP(&strategy, "strategy", "s", string(toyrsa.StrategyPhiRestricted), "phi-restricted or exhaustive")
	f.Int64Var(&e, "e", 0, "public exponent (instead of --key)")
	f.Int64Var(&n, "n", 0, "modulus (instead of --key)")
	f.Int64Var(&searchCap, "search-cap", 0, "exhaustive search: exponent cap (default from --params)")
	f.IntVar(&attemptCap, "attempt-cap", 0, "phi-restricted search: attempt cap (default from --params)")
	f.Float64Var(&threshold, "threshold", 0, "phi-restricted search: early-exit MSE (default from --params)")
	f.IntVar(&workers, "workers", 0, "parallel workers, 0 for one per CPU (default from --params)")
	f.DurationVar(&timeout, "timeout", 0, "stop and report the best candidate after this long")
	return cmd
}

func (a *app) logAnalysis(res toyrsa.CryptanalysisResult, elapsed time.Duration) {
	entry := a.log.WithFields(log.Fields{
		"strategy": res.Strategy,
		"attempts": res.Attempts,
		"stop":     res.Stop,
		"elapsed":  elapsed,
	})
	if !res.Found {
		entry.Warn("no valid plaintext found, try a longer ciphertext")
		return
	}
	entry.WithFields(log.Fields{
		"mse":         fmt.Sprintf("%.6f", res.MSE),
		"guessed_d":   res.GuessedD,
		"guessed_phi": res.GuessedPhi,
	}).Info("cryptanalysis finished")
}

func exportAnalysis(res toyrsa.CryptanalysisResult, elapsed time.Duration) AnalysisExport {
	out := AnalysisExport{
		Strategy:      res.Strategy,
		Plaintext:     res.Plaintext,
		Found:         res.Found,
		GuessedD:      res.GuessedD,
		GuessedPhi:    res.GuessedPhi,
		Attempts:      res.Attempts,
		Rejected:      res.Rejected,
		NonInvertible: res.NonInvertible,
		Stop:          res.Stop,
		ElapsedMS:     float64(elapsed.Microseconds()) / 1000,
	}
	if res.Found {
		mse := res.MSE
		out.MSE = &mse
	}
	return out
}

// ============================================================================
// Histograms
// ============================================================================

func (a *app) histogramCmd() *cobra.Command {
	var ciphertext, text string
	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Print chart data for ciphertext tokens or plaintext letters",
		Example: `  toyrsa-cli histogram --ciphertext "6 57 6"
  toyrsa-cli histogram --text "the quick brown fox"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text != "" {
				return a.writeJSON(cmd, frequency.LetterHistogram(text))
			}
			raw, err := a.readInput(cmd, ciphertext)
			if err != nil {
				return err
			}
			ct, _ := cipher.ParseCiphertext(ciphertextText(raw))
			return a.writeJSON(cmd, cipher.TokenHistogram(ct))
		},
	}
	cmd.Flags().StringVarP(&ciphertext, "ciphertext", "c", "", "ciphertext integers")
	cmd.Flags().StringVar(&text, "text", "", "plaintext whose letters are counted")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
			fmt.Fprintf(cmd.OutOrStdout(), "toyrsa library version %s\n", toyrsa.Version)
		},
	}
}

// publicKey resolves the public key from a key file or the --e/--n flags.
func (a *app) publicKey(keyFile string, e, n int64) (toyrsa.PublicKey, error) {
	if keyFile != "" {
		kp, err := loadKeyFromFile(keyFile)
		if err != nil {
			return toyrsa.PublicKey{}, err
		}
		return kp.Public(), nil
	}
	pk := toyrsa.PublicKey{E: e, N: n}
	if err := keygen.ValidatePublicKey(pk); err != nil {
		return pk, errors.Wrap(err, "either --key or valid --e and --n are required")
	}
	return pk, nil
}
