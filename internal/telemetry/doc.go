// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑：配置 OTLP gRPC
// 导出、父子采样与服务 resource 属性，并注册全局 provider。
// Telemetry 聚合全部清理函数，Shutdown 按创建的逆序关闭。
// 当遥测功能禁用时不创建任何导出器，全局 provider 保持 noop。
package telemetry
