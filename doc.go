// Package mallkit 是购物中心场景的商品推荐工具包（Mall Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 先过滤后截断: 设施约束等过滤发生在 Top-N 截断之前，不挤占名额
// - Node 可扩展: 自定义 Node 即可插拔扩展
package mallkit

import "github.com/shoply/mallkit/pipeline"

// 轻量 facade：便于用户直接 import "mallkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
