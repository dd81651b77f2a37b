// Package export stores solver results outside of the process.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/value-iteration/types"
	"github.com/zeu5/value-iteration/util"
)

// Record is a string keyed snapshot of a result
type Record struct {
	Policy     map[string]string  `json:"policy"`
	Values     map[string]float64 `json:"values"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	Delta      float64            `json:"delta"`
}

func NewRecord[S, A comparable](r *types.Result[S, A]) *Record {
	policy, values := r.Strings()
	return &Record{
		Policy:     policy,
		Values:     values,
		Iterations: r.Iterations,
		Converged:  r.Converged,
		Delta:      r.Delta,
	}
}

var ErrInvalidName = errors.New("export: invalid record name")

// CheckName rejects names that are empty or could leave the sink folder
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

type Sink interface {
	Write(ctx context.Context, name string, r *Record) error
}

// FileSink writes every record to Dir/<name>.json
type FileSink struct {
	Dir string
}

var _ Sink = &FileSink{}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (f *FileSink) Write(_ context.Context, name string, r *Record) error {
	if err := CheckName(name); err != nil {
		return err
	}
	bs, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteToFile(path.Join(f.Dir, name+".json"), string(bs))
}

// RedisSink stores a record as three hashes
// <prefix>:<name>:policy, <prefix>:<name>:values and <prefix>:<name>:meta
type RedisSink struct {
	client redis.Cmdable
	prefix string
}

var _ Sink = &RedisSink{}

func NewRedisSink(client redis.Cmdable, prefix string) *RedisSink {
	return &RedisSink{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisSink) key(name, part string) string {
	return s.prefix + ":" + name + ":" + part
}

func (s *RedisSink) Write(ctx context.Context, name string, r *Record) error {
	values := make(map[string]interface{}, len(r.Values))
	for state, v := range r.Values {
		values[state] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	policy := make(map[string]interface{}, len(r.Policy))
	for state, a := range r.Policy {
		policy[state] = a
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name, "policy"), s.key(name, "values"), s.key(name, "meta"))
	if len(policy) > 0 {
		pipe.HSet(ctx, s.key(name, "policy"), policy)
	}
	if len(values) > 0 {
		pipe.HSet(ctx, s.key(name, "values"), values)
	}
	pipe.HSet(ctx, s.key(name, "meta"), map[string]interface{}{
		"iterations": r.Iterations,
		"converged":  strconv.FormatBool(r.Converged),
		"delta":      strconv.FormatFloat(r.Delta, 'g', -1, 64),
	})
	_, err := pipe.Exec(ctx)
	return err
}

// Read loads a record written by Write
func (s *RedisSink) Read(ctx context.Context, name string) (*Record, error) {
	policy, err := s.client.HGetAll(ctx, s.key(name, "policy")).Result()
	if err != nil {
		return nil, err
	}
	rawValues, err := s.client.HGetAll(ctx, s.key(name, "values")).Result()
	if err != nil {
		return nil, err
	}
	meta, err := s.client.HGetAll(ctx, s.key(name, "meta")).Result()
	if err != nil {
		return nil, err
	}
	if len(meta) == 0 {
		return nil, redis.Nil
	}

	r := &Record{
		Policy: policy,
		Values: make(map[string]float64, len(rawValues)),
	}
	for state, raw := range rawValues {
		if r.Values[state], err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, err
		}
	}
	if r.Iterations, err = strconv.Atoi(meta["iterations"]); err != nil {
		return nil, err
	}
	if r.Converged, err = strconv.ParseBool(meta["converged"]); err != nil {
		return nil, err
	}
	if r.Delta, err = strconv.ParseFloat(meta["delta"], 64); err != nil {
		return nil, err
	}
	return r, nil
}
