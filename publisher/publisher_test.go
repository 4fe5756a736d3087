package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/config"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublish(t *testing.T) {
	writer := &fakeWriter{}
	p := NewKafkaPublisherWithWriter("transfers", writer, nil)
	p.now = func() time.Time { return time.Unix(100, 0).UTC() }

	value, err := walletcommon.ToDisplayUnits(big.NewInt(1_500_000), 6)
	require.NoError(t, err)
	account := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	record := walletcommon.TransferRecord{
		TxHash:    common.HexToHash("0x01"),
		Value:     value,
		Direction: walletcommon.Outgoing,
	}
	require.NoError(t, p.Publish(context.Background(), account, []walletcommon.TransferRecord{record}))
	require.Len(t, writer.msgs, 1)
	assert.Equal(t, record.TxHash.Hex(), string(writer.msgs[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(writer.msgs[0].Value, &decoded))
	assert.Equal(t, "transfer", decoded["type"])
	_, err = uuid.Parse(decoded["id"].(string))
	assert.NoError(t, err)
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, "out", data["direction"])
	assert.Equal(t, map[string]interface{}{"value": "1.5", "decimals": float64(6)}, data["value"])

	require.NoError(t, p.Publish(context.Background(), account, nil))
	assert.Len(t, writer.msgs, 1)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublishError(t *testing.T) {
	p := NewKafkaPublisherWithWriter("transfers", &fakeWriter{err: errors.New("leader not available")}, nil)
	err := p.Publish(context.Background(), common.Address{}, []walletcommon.TransferRecord{{}})
	assert.ErrorContains(t, err, "leader not available")
}

func TestNewPicksImplementation(t *testing.T) {
	assert.IsType(t, Nop{}, New(config.KafkaConfig{}, nil))
	p := New(config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "t"}, nil)
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}
