// 版权所有 2024 FlowCanvas Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 server 管理编辑器服务的 HTTP 监听器组：对外 API 端口与
Prometheus metrics 端口各占一个监听器，由同一个 Group 统一
完成后台 serve、信号等待与优雅排空。

# 核心类型

  - Group：监听器组。Listen 绑定并后台服务一个监听器，
    Wait 阻塞等待 SIGINT/SIGTERM 或监听器异常，
    Shutdown 按注册逆序排空全部监听器。
  - Config：单个监听器的地址与超时参数。

# 排空顺序

Shutdown 按注册顺序排空：API 监听器先注册先排空，对外编辑
请求与 WebSocket 事件连接最先停止，metrics 端口保留到最后
仍可被抓取。Listen 返回实际绑定地址，测试中可用端口 0 随机绑定。
*/
package server
