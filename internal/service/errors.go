package service

import "errors"

var (
	ErrEmailExists          = errors.New("邮箱已被注册")
	ErrInvalidCredentials   = errors.New("邮箱或密码错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrPermissionDenied     = errors.New("无权操作该资源")
	ErrNoUpdateFields       = errors.New("没有可更新的字段")
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrInvalidCategory      = errors.New("订阅分类无效")
	ErrInvalidStartDate     = errors.New("开始日期不能晚于当前时间")
	ErrInvalidRenewalDate   = errors.New("续费日期必须晚于开始日期")
	ErrSubscriptionInactive = errors.New("订阅未处于有效状态")
	ErrReminderUnavailable  = errors.New("提醒服务暂不可用")
)
