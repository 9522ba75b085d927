package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "HH:MM дополняется секундами", input: "10:00", want: "10:00:00"},
		{name: "HH:MM:SS остаётся как есть", input: "09:45:30", want: "09:45:30"},
		{name: "полночь", input: "00:00", want: "00:00:00"},
		{name: "последняя секунда суток", input: "23:59:59", want: "23:59:59"},
		{name: "24 часа недопустимо", input: "24:00", wantErr: true},
		{name: "минуты вне диапазона", input: "10:60", wantErr: true},
		{name: "однозначный час", input: "9:00", wantErr: true},
		{name: "мусор", input: "abc", wantErr: true},
		{name: "пустая строка", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := TimeString("10:00:00")

	end, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:45:00"), end)

	end, err = start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30:00"), end)

	// Переход через полночь - ошибка
	late := TimeString("23:30:00")
	_, err = late.AddMinutes(45)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Comparison(t *testing.T) {
	assert.True(t, TimeString("09:00:00").IsBefore("18:00:00"))
	assert.True(t, TimeString("18:00:00").IsAfter("09:00:00"))
	assert.False(t, TimeString("10:00:00").IsBefore("10:00:00"))
	assert.False(t, TimeString("10:00:00").IsAfter("10:00:00"))
}

func TestNewDateStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "корректная дата", input: "2026-01-10"},
		{name: "високосный день", input: "2028-02-29"},
		{name: "несуществующий день", input: "2026-02-30", wantErr: true},
		{name: "не високосный год", input: "2026-02-29", wantErr: true},
		{name: "без ведущих нулей", input: "2026-1-5", wantErr: true},
		{name: "мусор", input: "вчера", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDateString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDateString_Weekday(t *testing.T) {
	// 2026-01-10 - суббота; значение не должно зависеть от таймзоны процесса
	d := DateString("2026-01-10")
	wd, err := d.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, wd)

	wd, err = DateString("2026-12-25").Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Friday, wd)
}

func TestDateString_Comparison(t *testing.T) {
	assert.True(t, DateString("2026-01-09").IsBefore("2026-01-10"))
	assert.False(t, DateString("2026-01-10").IsBefore("2026-01-10"))
	assert.True(t, DateString("2026-01-10").Equal("2026-01-10"))
}
