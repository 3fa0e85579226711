// Package ledger 持久化续费提醒的完成标记，保证同一检查点最多发送一次
package ledger

import (
	"context"

	"github.com/qs3c/subtrack_go_server/internal/model"
	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

// Store 带 context 的完成标记存储，由 activity 调用
type Store interface {
	Claim(ctx context.Context, m reminder.Marker) (bool, error)
	Record(ctx context.Context, m reminder.Marker, sendErr error) error
}

// Memory 将 reminder.MemoryLedger 适配为 Store
type Memory struct {
	*reminder.MemoryLedger
}

func NewMemory() *Memory {
	return &Memory{MemoryLedger: reminder.NewMemoryLedger()}
}

func (m *Memory) Claim(_ context.Context, marker reminder.Marker) (bool, error) {
	return m.MemoryLedger.Claim(marker)
}

func (m *Memory) Record(_ context.Context, marker reminder.Marker, sendErr error) error {
	return m.MemoryLedger.Record(marker, sendErr)
}

func resultOf(sendErr error) (status, msg string) {
	if sendErr != nil {
		return model.DeliveryStatusFailed, sendErr.Error()
	}
	return model.DeliveryStatusSent, ""
}
