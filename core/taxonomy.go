package core

// Taxonomy 是类目图的能力接口：深度、最近公共祖先、Wu-Palmer 相似度。
//
// 设计原则：
//   - 定义在领域层（core），由 taxonomy 包实现一次、全部策略共享
//   - 实现是进程级只读快照，并发读不需要加锁
//
// 相似度约定（Wu-Palmer）：
//   - Similarity(x, x) = 1.0（x 在图中）
//   - 任一节点不在图中 → 0.0（不给部分分）
//   - 其余为 2*depth(lca) / (depth(a)+depth(b))，取值 [0, 1]
type Taxonomy interface {
	// Has 判断类目节点是否在图中
	Has(node string) bool

	// Depth 返回节点到树根的边数（根为 0；未知节点为 -1）
	Depth(node string) int

	// LowestCommonAncestor 返回两个节点的最近公共祖先；
	// 任一节点未知或分属不同树时 ok 为 false
	LowestCommonAncestor(a, b string) (lca string, ok bool)

	// Similarity 计算两个类目节点的 Wu-Palmer 相似度
	Similarity(a, b string) float64

	// PathSimilarity 比较两条完整类目路径：对两条路径节点两两求
	// Similarity 取最大值。任一路径为空返回 0
	PathSimilarity(pathA, pathB []string) float64
}
