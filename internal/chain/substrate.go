package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/parallel-finance/paractl/internal/address"
	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/logger"
)

const pollInterval = 1000 * time.Millisecond

// Substrate is a Client backed by a websocket connection to one node.
type Substrate struct {
	endpoint string
	label    string
	api      *gsrpc.SubstrateAPI
	meta     *types.Metadata
	log      logger.Logger

	// SubmitTimeout bounds the wait for inclusion. Zero waits until ctx
	// is done.
	SubmitTimeout time.Duration

	eventsOnce sync.Once
	events     retriever.EventRetriever
	eventsErr  error
}

// Dial connects to endpoint and fetches the latest metadata. label is used
// in logs ("relay", "para").
func Dial(ctx context.Context, endpoint, label string, log logger.Logger) (*Substrate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("Connecting to chain", zap.String("chain", label), zap.String("endpoint", endpoint))

	api, err := gsrpc.NewSubstrateAPI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s chain at %s: %w", label, endpoint, err)
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("failed to fetch %s chain metadata: %w", label, err)
	}

	return &Substrate{
		endpoint: endpoint,
		label:    label,
		api:      api,
		meta:     meta,
		log:      log.With(zap.String("chain", label)),
	}, nil
}

func (s *Substrate) Close() {
	s.api.Client.Close()
}

func (s *Substrate) ChainName(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := s.api.RPC.System.Chain()
	if err != nil {
		return "", fmt.Errorf("failed to query chain name: %w", err)
	}
	return string(name), nil
}

func (s *Substrate) BlockNumber(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	header, err := s.api.RPC.Chain.GetHeaderLatest()
	if err != nil {
		return 0, fmt.Errorf("failed to get latest header: %w", err)
	}
	return uint32(header.Number), nil
}

func (s *Substrate) BlockHash(ctx context.Context, number uint32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, err := s.api.RPC.Chain.GetBlockHash(uint64(number))
	if err != nil {
		return "", fmt.Errorf("failed to get block hash of #%d: %w", number, err)
	}
	return hash.Hex(), nil
}

func (s *Substrate) LatestBlockHash(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, err := s.api.RPC.Chain.GetBlockHashLatest()
	if err != nil {
		return "", fmt.Errorf("failed to get latest block hash: %w", err)
	}
	return hash.Hex(), nil
}

func (s *Substrate) Encode(call calls.Call) ([]byte, error) {
	c, err := s.resolve(call)
	if err != nil {
		return nil, err
	}
	return codec.Encode(c)
}

func (s *Substrate) EncodeHex(call calls.Call) (string, error) {
	bz, err := s.Encode(call)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(bz), nil
}

func (s *Substrate) SubmitBatch(ctx context.Context, signer signature.KeyringPair, batch []calls.Call) (*Receipt, error) {
	return s.Submit(ctx, signer, calls.BatchAll(batch))
}

func (s *Substrate) Submit(ctx context.Context, signer signature.KeyringPair, call calls.Call) (*Receipt, error) {
	c, err := s.resolve(call)
	if err != nil {
		return nil, err
	}

	ext := types.NewExtrinsic(c)

	rv, err := s.api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime version: %w", err)
	}
	genesis, err := s.api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return nil, fmt.Errorf("failed to get genesis hash: %w", err)
	}
	nonce, err := s.nextNonce(signer)
	if err != nil {
		return nil, err
	}

	opts := types.SignatureOptions{
		BlockHash:          genesis,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        genesis,
		Nonce:              types.NewUCompactFromUInt(nonce),
		SpecVersion:        rv.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: rv.TransactionVersion,
	}
	if err := ext.Sign(signer, opts); err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", call.Name(), err)
	}

	encoded, err := codec.EncodeToHex(ext)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extrinsic: %w", err)
	}

	log := logger.Scoped(ctx, s.log).With(zap.String("call", call.String()), zap.Uint64("nonce", nonce))
	if flat := calls.Flatten(call); len(flat) > 1 {
		log = log.With(zap.Int("calls", len(flat)))
	}
	log.Info("Submitting extrinsic")
	log.Debug("Call tree", zap.String("tree", calls.Describe(call)))

	sub, err := s.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", call.Name(), err)
	}
	defer sub.Unsubscribe()

	waitCtx := ctx
	if s.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.SubmitTimeout)
		defer cancel()
	}

	for {
		select {
		case <-waitCtx.Done():
			if ctx.Err() == nil {
				return nil, fmt.Errorf("waiting for %s to be included: %w", call.Name(), ErrTimeout)
			}
			return nil, ctx.Err()
		case err := <-sub.Err():
			return nil, fmt.Errorf("extrinsic status subscription failed: %w", err)
		case status := <-sub.Chan():
			switch {
			case status.IsInBlock:
				return s.inspect(ctx, log, status.AsInBlock, encoded)
			case status.IsFinalized:
				return s.inspect(ctx, log, status.AsFinalized, encoded)
			case status.IsDropped, status.IsUsurped:
				return nil, fmt.Errorf("%s: %w", call.Name(), ErrDropped)
			case status.IsInvalid:
				return nil, fmt.Errorf("%s rejected as invalid: %w", call.Name(), ErrDropped)
			default:
				log.Debug("Extrinsic status", zap.Bool("ready", status.IsReady), zap.Bool("broadcast", status.IsBroadcast))
			}
		}
	}
}

func (s *Substrate) nextNonce(signer signature.KeyringPair) (uint64, error) {
	var nonce uint64
	if err := s.api.Client.Call(&nonce, "system_accountNextIndex", signer.Address); err != nil {
		return 0, fmt.Errorf("failed to get next nonce of %s: %w", signer.Address, err)
	}
	return nonce, nil
}

type rawBlock struct {
	Block struct {
		Extrinsics []string `json:"extrinsics"`
	} `json:"block"`
}

// inspect locates the extrinsic in its block and turns a failed
// dispatch reported by its events into a *DispatchError.
func (s *Substrate) inspect(ctx context.Context, log logger.Logger, blockHash types.Hash, encoded string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		BlockHash:      blockHash.Hex(),
		ExtrinsicIndex: -1,
	}
	if bz, err := hexutil.Decode(encoded); err == nil {
		receipt.ExtrinsicHash = hexutil.Encode(blake2_256(bz))
	}

	var block rawBlock
	if err := s.api.Client.Call(&block, "chain_getBlock", receipt.BlockHash); err != nil {
		return nil, fmt.Errorf("failed to fetch block %s: %w", receipt.BlockHash, err)
	}
	for i, x := range block.Block.Extrinsics {
		if strings.EqualFold(x, encoded) {
			receipt.ExtrinsicIndex = i
			break
		}
	}

	log = log.With(zap.String("blockHash", receipt.BlockHash), zap.Int("extrinsicIndex", receipt.ExtrinsicIndex))
	if receipt.ExtrinsicIndex < 0 {
		log.Warn("Extrinsic not found in block, dispatch result unknown")
		return receipt, nil
	}

	er, err := s.eventRetriever()
	if err != nil {
		log.Warn("Event retriever unavailable, dispatch result unknown", zap.Error(err))
		return receipt, nil
	}
	events, err := er.GetEvents(blockHash)
	if err != nil {
		log.Warn("Failed to read block events, dispatch result unknown", zap.Error(err))
		return receipt, nil
	}

	var failure *DispatchError
	receipt.Events, failure = classifyEvents(s.meta, events, receipt.ExtrinsicIndex)

	if failure != nil {
		log.Error("Extrinsic failed", zap.String("pallet", failure.Pallet), zap.String("error", failure.Name))
		return receipt, failure
	}
	log.Info("Extrinsic included", zap.Int("events", len(receipt.Events)))
	return receipt, nil
}

func (s *Substrate) eventRetriever() (retriever.EventRetriever, error) {
	s.eventsOnce.Do(func() {
		s.events, s.eventsErr = retriever.NewDefaultEventRetriever(state.NewEventProvider(s.api.RPC.State), s.api.RPC.State)
	})
	return s.events, s.eventsErr
}

func (s *Substrate) StorageRaw(ctx context.Context, key []byte, at string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		raw *types.StorageDataRaw
		err error
	)
	if at == "" {
		raw, err = s.api.RPC.State.GetStorageRawLatest(types.NewStorageKey(key))
	} else {
		hash, herr := types.NewHashFromHexString(at)
		if herr != nil {
			return nil, fmt.Errorf("invalid block hash %q: %w", at, herr)
		}
		raw, err = s.api.RPC.State.GetStorageRaw(types.NewStorageKey(key), hash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage %s: %w", hexutil.Encode(key), err)
	}
	if raw == nil || len(*raw) == 0 {
		return nil, nil
	}
	return []byte(*raw), nil
}

type rawReadProof struct {
	At    string   `json:"at"`
	Proof []string `json:"proof"`
}

func (s *Substrate) ReadProof(ctx context.Context, keys [][]byte, at string) (*ReadProof, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hexKeys := make([]string, len(keys))
	for i, k := range keys {
		hexKeys[i] = hexutil.Encode(k)
	}

	var res rawReadProof
	var err error
	if at == "" {
		err = s.api.Client.Call(&res, "state_getReadProof", hexKeys)
	} else {
		err = s.api.Client.Call(&res, "state_getReadProof", hexKeys, at)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get read proof: %w", err)
	}

	proof := &ReadProof{At: res.At, Proof: make([][]byte, 0, len(res.Proof))}
	for _, node := range res.Proof {
		bz, err := hexutil.Decode(node)
		if err != nil {
			return nil, fmt.Errorf("malformed proof node %q: %w", node, err)
		}
		proof.Proof = append(proof.Proof, bz)
	}
	return proof, nil
}

func (s *Substrate) Constant(pallet, name string, target interface{}) error {
	for _, p := range s.meta.AsMetadataV14.Pallets {
		if string(p.Name) != pallet {
			continue
		}
		for _, c := range p.Constants {
			if string(c.Name) == name {
				if err := codec.Decode(c.Value, target); err != nil {
					return fmt.Errorf("failed to decode constant %s.%s: %w", pallet, name, err)
				}
				return nil
			}
		}
	}
	return fmt.Errorf("constant %s.%s not found in %s metadata", pallet, name, s.label)
}

// resolve turns a call tree into a metadata bound types.Call.
func (s *Substrate) resolve(call calls.Call) (types.Call, error) {
	args := make([]interface{}, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := s.resolveArg(a)
		if err != nil {
			return types.Call{}, fmt.Errorf("%s: %w", call.Name(), err)
		}
		args = append(args, v)
	}

	c, err := types.NewCall(s.meta, call.Name(), args...)
	if err != nil {
		return types.Call{}, fmt.Errorf("failed to build %s on %s chain: %w", call.Name(), s.label, err)
	}
	return c, nil
}

func (s *Substrate) resolveArg(a interface{}) (interface{}, error) {
	switch v := a.(type) {
	case calls.Call:
		return s.resolve(v)
	case []calls.Call:
		out := make([]types.Call, 0, len(v))
		for _, c := range v {
			r, err := s.resolve(c)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	case calls.LengthOf:
		bz, err := s.Encode(v.Call)
		if err != nil {
			return nil, err
		}
		return calls.NewCompact(uint64(len(bz))), nil
	default:
		return a, nil
	}
}

// SS58 re-encodes a keyring address with prefix.
func SS58(kp signature.KeyringPair, prefix uint16) string {
	addr, err := address.Encode(kp.PublicKey, prefix)
	if err != nil {
		return kp.Address
	}
	return addr
}
