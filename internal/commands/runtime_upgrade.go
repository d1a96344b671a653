package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/chain"
	"github.com/parallel-finance/paractl/internal/commands/middleware"
)

const (
	DefaultRuntimeName    = "heiko"
	DefaultRuntimeVersion = "v1.8.5"
	DefaultRuntimeHash    = "0xe1caf000a36540de68a34ed2ce3d70eccd56b05fefda895dd308ee73c53fed40"

	releaseURLFormat = "https://github.com/parallel-finance/parallel/releases/download/%s/%s_runtime.compact.compressed.wasm"

	// maxRuntimeSize bounds the download; compressed runtimes are a few MB.
	maxRuntimeSize = 64 << 20
)

// ErrHashMismatch is returned when a downloaded runtime does not match
// the expected blake2-256 hash.
var ErrHashMismatch = errors.New("runtime hash mismatch")

func runtimeURL(name, version string) string {
	return fmt.Sprintf(releaseURLFormat, version, name)
}

// fetchRuntime downloads the compressed runtime wasm at url.
func fetchRuntime(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download runtime")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to download runtime from %s: %s", url, resp.Status)
	}
	code, err := io.ReadAll(io.LimitReader(resp.Body, maxRuntimeSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read runtime")
	}
	if len(code) > maxRuntimeSize {
		return nil, errors.Errorf("runtime at %s exceeds %d bytes", url, maxRuntimeSize)
	}
	return code, nil
}

// verifyRuntime checks code against the expected 0x prefixed blake2-256 hash.
func verifyRuntime(code []byte, expected string) ([32]byte, error) {
	sum := blake2b.Sum256(code)
	want, err := hexutil.Decode(expected)
	if err != nil {
		return sum, fmt.Errorf("invalid runtime hash %q: %w", expected, err)
	}
	if !bytes.Equal(sum[:], want) {
		return sum, fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, hexutil.Encode(sum[:]), expected)
	}
	return sum, nil
}

// RuntimeUpgradeCommand notes the authorize_upgrade preimage and proposes
// it to democracy through the general council.
func RuntimeUpgradeCommand() *cli.Command {
	return &cli.Command{
		Name:  "runtime-upgrade",
		Usage: "Propose a parachain runtime upgrade from a released wasm",
		Description: `Downloads the compressed runtime of a parallel release, checks its
blake2-256 hash and submits Utility.batch_all of Preimage.note_preimage and
a general council proposal of Democracy.external_propose_majority for
ParachainSystem.authorize_upgrade(hash).`,
		Flags: []cli.Flag{
			paraWSFlag(),
			&cli.StringFlag{
				Name:    "runtime-name",
				Aliases: []string{"n"},
				Usage:   "Runtime name: heiko, parallel or vanilla",
				Value:   DefaultRuntimeName,
			},
			&cli.StringFlag{
				Name:    "runtime-version",
				Usage:   "Release tag to download",
				Value:   DefaultRuntimeVersion,
			},
			&cli.StringFlag{
				Name:    "blake256-hash",
				Aliases: []string{"b"},
				Usage:   "Expected blake2-256 hash of the compressed runtime",
				Value:   DefaultRuntimeHash,
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Download the runtime from this URL instead of the release page",
			},
			dryRunFlag(),
			yesFlag(),
		},
		Action: func(c *cli.Context) error {
			url := c.String("url")
			if url == "" {
				url = runtimeURL(c.String("runtime-name"), c.String("runtime-version"))
			}
			log := middleware.GetLogger(c)
			log.Info("Downloading runtime", zap.String("url", url))

			code, err := fetchRuntime(c.Context, http.DefaultClient, url)
			if err != nil {
				return err
			}
			codeHash, err := verifyRuntime(code, c.String("blake256-hash"))
			if err != nil {
				return err
			}
			log.Info("Runtime verified", zap.Int("bytes", len(code)), zap.String("hash", hexutil.Encode(codeHash[:])))

			para, err := middleware.ParaClient(c)
			if err != nil {
				return err
			}
			defer para.Close()

			s, err := newSubmitter(c, "para", para)
			if err != nil {
				return err
			}
			return executeRuntimeUpgrade(c.Context, para, s, codeHash)
		},
	}
}

func executeRuntimeUpgrade(ctx context.Context, para chain.Client, s *submitter, codeHash [32]byte) error {
	authorize := calls.ParachainSystemAuthorizeUpgrade(codeHash)
	encoded, err := para.Encode(authorize)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", authorize.Name(), err)
	}
	preimageHash := blake2b.Sum256(encoded)
	s.Log.Info("Upgrade preimage",
		zap.String("encoded", hexutil.Encode(encoded)),
		zap.String("hash", hexutil.Encode(preimageHash[:])))

	proposal, err := councilProposal(ctx, para, calls.DemocracyExternalProposeMajority(preimageHash))
	if err != nil {
		return err
	}
	_, err = s.send(ctx, calls.BatchAll([]calls.Call{calls.PreimageNotePreimage(encoded), proposal}))
	return err
}
