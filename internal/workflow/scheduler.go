package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

const workflowIDPrefix = "subscription-reminder-"

// WorkflowID 每个订阅固定一个工作流 ID，同时只有一个运行
func WorkflowID(subscriptionID int64) string {
	return workflowIDPrefix + strconv.FormatInt(subscriptionID, 10)
}

// Execution 已启动的工作流
type Execution struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}

// Scheduler 从 API 侧启动和终止提醒工作流
type Scheduler struct {
	client    client.Client
	taskQueue string
	leads     reminder.LeadTimes
	timezone  string
}

func NewScheduler(c client.Client, taskQueue string, leads reminder.LeadTimes, timezone string) *Scheduler {
	return &Scheduler{
		client:    c,
		taskQueue: taskQueue,
		leads:     leads,
		timezone:  timezone,
	}
}

// Schedule 启动提醒工作流，已有运行会被终止后重新开始（续费日期变化时）
func (s *Scheduler) Schedule(ctx context.Context, subscriptionID int64) (*Execution, error) {
	options := client.StartWorkflowOptions{
		ID:                       WorkflowID(subscriptionID),
		TaskQueue:                s.taskQueue,
		WorkflowIDReusePolicy:    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowIDConflictPolicy: enumspb.WORKFLOW_ID_CONFLICT_POLICY_TERMINATE_EXISTING,
	}
	input := ReminderInput{
		SubscriptionID: subscriptionID,
		LeadDays:       []int(s.leads),
		Timezone:       s.timezone,
	}

	run, err := s.client.ExecuteWorkflow(ctx, options, ReminderWorkflow, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start reminder workflow: %w", err)
	}

	return &Execution{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}

// Cancel 终止订阅的提醒工作流，没有运行中的工作流时不报错
func (s *Scheduler) Cancel(ctx context.Context, subscriptionID int64) error {
	err := s.client.TerminateWorkflow(ctx, WorkflowID(subscriptionID), "", "subscription cancelled")
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to terminate reminder workflow: %w", err)
	}
	return nil
}
