package reader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/raise3/raise3/util/metrics"
)

var DEFAULT_ADDRESS string = "0x0000000000000000000000000000000000000000"

// EthReader sends every call to all of its nodes and returns the first
// successful answer.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, url := range nodes {
		ns[name] = NewOneNodeReader(name, url)
	}
	return &EthReader{nodes: ns}
}

// NewEthReaderWithNodes is used by tests to plug in fake nodes.
func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{nodes: ns}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// firstSuccess runs call against all nodes concurrently. It returns as soon
// as one node succeeds, otherwise all node errors joined.
func firstSuccess[T any](er *EthReader, call func(n EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("no nodes configured")
	}
	resCh := make(chan nodeResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := call(n)
			resCh <- nodeResult[T]{Value: v, Error: wrapError(err, n.NodeName())}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (uint64, error) {
	return firstSuccess(er, func(n EthereumNode) (uint64, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) GetCode(ctx context.Context, address string) ([]byte, error) {
	return firstSuccess(er, func(n EthereumNode) ([]byte, error) {
		return n.GetCode(ctx, address)
	})
}

func (er *EthReader) CurrentBlock(ctx context.Context) (uint64, error) {
	return firstSuccess(er, func(n EthereumNode) (uint64, error) {
		return n.CurrentBlock(ctx)
	})
}

func (er *EthReader) ReadContractToBytes(
	ctx context.Context,
	atBlock int64,
	from string,
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	start := time.Now()
	data, err := firstSuccess(er, func(n EthereumNode) ([]byte, error) {
		return n.ReadContractToBytes(ctx, atBlock, from, caddr, abi, method, args...)
	})
	metrics.ObserveContractRead(method, err, time.Since(start))
	return data, err
}

func (er *EthReader) ReadHistoryContractWithABI(
	ctx context.Context,
	atBlock int64,
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	responseBytes, err := er.ReadContractToBytes(ctx, atBlock, DEFAULT_ADDRESS, caddr, abi, method, args...)
	if err != nil {
		return err
	}
	return abi.UnpackIntoInterface(result, method, responseBytes)
}

func (er *EthReader) ReadContractWithABI(
	ctx context.Context,
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	return er.ReadHistoryContractWithABI(ctx, -1, result, caddr, abi, method, args...)
}
