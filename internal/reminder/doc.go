// Package reminder 订阅续费提醒的核心流程。
//
// 给定一个订阅，Driver 在入口处读取一次快照，按提前天数（LeadTimes）计算提醒检查点，
// 对每个检查点判断已过期 / 当天到期 / 尚未到期，未到期时通过 Suspender 挂起到触发时间，
// 到期时在 Ledger 中登记完成标记后调用 Sink 发送提醒。
//
// 本包不依赖具体的持久化执行运行时。挂起、时钟、读取与发送都通过接口注入，
// 由 internal/workflow 绑定到 Temporal 上。
package reminder
