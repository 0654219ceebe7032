package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverylens/internal/normalize"
	"deliverylens/internal/rawtable"
)

var (
	doordashCSV = []byte("时间戳本地日期,净总计,最终订单状态,店铺名称\n" +
		"2025-06-01 12:00:00,25.40,Delivered,Luckin Coffee US00001\n" +
		"2025-06-02 18:30:00,18.10,Delivered,Luckin Coffee US00002\n")

	uberCSV = []byte("优食管理工具导出,,,\n" +
		"订单日期,收入总额,订单状态,餐厅名称\n" +
		"2025/6/1 13:00,30.00,已完成,Luckin Coffee (Broadway)\n" +
		"2025/6/3 19:00,12.50,已完成,Luckin Coffee (Times Square)\n")

	grubhubCSV = []byte("transaction_date,merchant_net_total,transaction_type,store_name\n" +
		"########,20.00,Prepaid,Luckin Coffee US00003\n" +
		"########,15.00,Order,Luckin Coffee US00003\n")
)

func loadInputs(t *testing.T) []Input {
	t.Helper()
	inputs := make([]Input, 0, 3)
	for _, src := range []struct {
		platform normalize.Platform
		data     []byte
	}{
		{normalize.PlatformDoorDash, doordashCSV},
		{normalize.PlatformUber, uberCSV},
		{normalize.PlatformGrubhub, grubhubCSV},
	} {
		table, err := rawtable.LoadBytes(src.data)
		require.NoError(t, err)
		inputs = append(inputs, Input{Platform: src.platform, Table: table})
	}
	return inputs
}

func TestRunUnifiesAllPlatforms(t *testing.T) {
	res := Run(loadInputs(t), Config{
		ReferenceMonth: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NotEmpty(t, res.RunID)
	assert.Equal(t, 6, res.TotalKept())
	assert.Equal(t, map[normalize.Platform]int{
		normalize.PlatformDoorDash: 2,
		normalize.PlatformUber:     2,
		normalize.PlatformGrubhub:  2,
	}, res.CountByPlatform())

	// Unification preserves input order: DoorDash rows, then Uber, then Grubhub.
	assert.Equal(t, normalize.PlatformDoorDash, res.Records[0].Platform)
	assert.Equal(t, normalize.PlatformGrubhub, res.Records[5].Platform)

	total := decimal.Zero
	for i := range res.Records {
		total = total.Add(res.Records[i].Revenue)
	}
	assert.Equal(t, "121", total.String())

	require.Len(t, res.Reports, 3)
	for _, rep := range res.Reports {
		assert.False(t, rep.Failed(), "platform %s", rep.Platform)
	}
	assert.True(t, res.Reports[1].HeaderPromoted, "uber export carries a prose header line")
	assert.True(t, res.Reports[2].DateRepaired, "grubhub dates were corrupted")
}

func TestRunFailedPlatformDoesNotFailSession(t *testing.T) {
	broken, err := rawtable.LoadBytes([]byte("时间戳本地日期,小计\n2025-06-01,10\n"))
	require.NoError(t, err)
	good, err := rawtable.LoadBytes([]byte("transaction_date,merchant_net_total\n2025-06-01,5.00\n"))
	require.NoError(t, err)

	res := Run([]Input{
		{Platform: normalize.PlatformDoorDash, Table: broken},
		{Platform: normalize.PlatformGrubhub, Table: good},
	}, Config{})

	require.Len(t, res.Reports, 2)
	assert.True(t, res.Reports[0].Failed())
	assert.False(t, res.Reports[1].Failed())
	assert.Equal(t, 1, res.TotalKept())
}

func TestRunSkipsUnknownPlatform(t *testing.T) {
	table, err := rawtable.LoadBytes([]byte("a\n1\n"))
	require.NoError(t, err)

	res := Run([]Input{{Platform: normalize.Platform("Postmates"), Table: table}}, Config{})
	assert.Empty(t, res.Reports)
	assert.Zero(t, res.TotalKept())
}

func TestCache(t *testing.T) {
	c := NewCache()
	key := Key(doordashCSV, uberCSV, grubhubCSV)

	_, ok := c.Get(key)
	assert.False(t, ok)

	res := Run(loadInputs(t), Config{})
	c.Put(key, res)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, res, got)

	// A changed upload changes the key.
	other := Key(doordashCSV, uberCSV, []byte("different"))
	assert.NotEqual(t, key, other)
	_, ok = c.Get(other)
	assert.False(t, ok)

	c.Reset()
	_, ok = c.Get(key)
	assert.False(t, ok)
}
