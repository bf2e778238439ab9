package client

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestExchangeLogEvictsOldest(t *testing.T) {
	log := NewExchangeLog(3)
	for i := 0; i < 5; i++ {
		log.Record(Exchange{ID: uuid.New(), URL: fmt.Sprintf("/match/%d", i)})
	}

	exchanges := log.Exchanges()
	require.Len(t, exchanges, 3)
	require.Equal(t, "/match/2", exchanges[0].URL)
	require.Equal(t, "/match/4", exchanges[2].URL)
}

func TestExchangeLogZeroCapacityRecordsNothing(t *testing.T) {
	log := NewExchangeLog(0)
	log.Record(Exchange{URL: "/a"})
	require.Empty(t, log.Exchanges())

	log = NewExchangeLog(-1)
	log.Record(Exchange{URL: "/a"})
	require.Empty(t, log.Exchanges())
}

func TestExchangeLogCopiesOnRead(t *testing.T) {
	log := NewExchangeLog(2)
	log.Record(Exchange{URL: "/a"})

	exchanges := log.Exchanges()
	exchanges[0].URL = "/mutated"

	require.Equal(t, "/a", log.Exchanges()[0].URL)
}
