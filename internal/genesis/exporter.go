package genesis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/config"
	"github.com/parallel-finance/paractl/internal/logger"
)

// Genesis is the head and validation code a parachain registers with.
type Genesis struct {
	State []byte
	Wasm  []byte
}

// Exporter produces the genesis blobs of a crowdloan's parachain.
type Exporter interface {
	Export(ctx context.Context, crowdloan config.Crowdloan) (*Genesis, error)
}

const (
	exportStateCmd = "export-genesis-state"
	exportWasmCmd  = "export-genesis-wasm"
)

// dockerAPI is the subset of the docker client used by DockerExporter.
type dockerAPI interface {
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

// DockerExporter runs the collator image of each crowdloan to print its
// genesis state and wasm.
type DockerExporter struct {
	api dockerAPI
	log logger.Logger
}

func NewDockerExporter(log logger.Logger) (*DockerExporter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Docker client")
	}
	return &DockerExporter{api: cli, log: log}, nil
}

func (d *DockerExporter) Close() error {
	return d.api.Close()
}

func (d *DockerExporter) Export(ctx context.Context, crowdloan config.Crowdloan) (*Genesis, error) {
	if crowdloan.Image == "" {
		return nil, errors.Errorf("crowdloan of para %d has no collator image", crowdloan.ParaID)
	}

	state, err := d.run(ctx, crowdloan.Image, exportStateCmd, "--chain", crowdloan.Chain)
	if err != nil {
		return nil, err
	}
	wasm, err := d.run(ctx, crowdloan.Image, exportWasmCmd, "--chain", crowdloan.Chain)
	if err != nil {
		return nil, err
	}

	g := &Genesis{}
	if g.State, err = decodeBlob(state); err != nil {
		return nil, errors.Wrapf(err, "para %d: malformed %s output", crowdloan.ParaID, exportStateCmd)
	}
	if g.Wasm, err = decodeBlob(wasm); err != nil {
		return nil, errors.Wrapf(err, "para %d: malformed %s output", crowdloan.ParaID, exportWasmCmd)
	}
	return g, nil
}

// run executes image with args and returns its stdout.
func (d *DockerExporter) run(ctx context.Context, img string, args ...string) ([]byte, error) {
	cmdline := fmt.Sprintf("docker run --rm %s %s", img, strings.Join(args, " "))
	d.log.Info("Exporting genesis", zap.String("cmd", cmdline))

	cfg := &container.Config{Image: img, Cmd: args}
	resp, err := d.api.ContainerCreate(ctx, cfg, &container.HostConfig{}, &network.NetworkingConfig{}, nil, "")
	if errdefs.IsNotFound(err) {
		if err := d.pull(ctx, img); err != nil {
			return nil, err
		}
		resp, err = d.api.ContainerCreate(ctx, cfg, &container.HostConfig{}, &network.NetworkingConfig{}, nil, "")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create container for %q", cmdline)
	}
	defer func() {
		if err := d.api.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true}); err != nil {
			d.log.Warn("Failed to remove container", zap.String("id", resp.ID), zap.Error(err))
		}
	}()

	if err := d.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, errors.Wrapf(err, "failed to start %q", cmdline)
	}

	statusCh, errCh := d.api.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	var exitCode int64
	select {
	case err := <-errCh:
		if err != nil {
			return nil, errors.Wrapf(err, "failed waiting for %q", cmdline)
		}
	case status := <-statusCh:
		exitCode = status.StatusCode
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	logs, err := d.api.ContainerLogs(ctx, resp.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read output of %q", cmdline)
	}
	defer logs.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil {
		return nil, errors.Wrapf(err, "failed to demultiplex output of %q", cmdline)
	}

	if exitCode != 0 {
		return nil, errors.Errorf("%q exited with code %d: %s", cmdline, exitCode, strings.TrimSpace(stderr.String()))
	}
	return bytes.TrimSpace(stdout.Bytes()), nil
}

func (d *DockerExporter) pull(ctx context.Context, img string) error {
	d.log.Info("Pulling image", zap.String("image", img))
	reader, err := d.api.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return errors.Wrapf(err, "failed to pull image %s", img)
	}
	defer reader.Close()

	_, err = io.Copy(io.Discard, reader)
	return err
}

// FileExporter reads pre-exported blobs from
// <dir>/<paraId>/genesis-state and <dir>/<paraId>/genesis-wasm.
type FileExporter struct {
	Dir string
}

func (f *FileExporter) Export(ctx context.Context, crowdloan config.Crowdloan) (*Genesis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := filepath.Join(f.Dir, strconv.FormatUint(uint64(crowdloan.ParaID), 10))
	state, err := readBlob(filepath.Join(base, "genesis-state"))
	if err != nil {
		return nil, err
	}
	wasm, err := readBlob(filepath.Join(base, "genesis-wasm"))
	if err != nil {
		return nil, err
	}
	return &Genesis{State: state, Wasm: wasm}, nil
}

func readBlob(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read genesis blob")
	}
	blob, err := decodeBlob(bytes.TrimSpace(data))
	if err != nil {
		return nil, errors.Wrapf(err, "malformed genesis blob %s", path)
	}
	return blob, nil
}

// decodeBlob accepts the 0x prefixed hex printed by collators; anything
// else is taken as raw bytes.
func decodeBlob(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty output")
	}
	if bytes.HasPrefix(data, []byte("0x")) {
		return hexutil.Decode(string(data))
	}
	return data, nil
}
