// Package taxonomy 实现类目图：从 (parent, child) 边表构建有根树/森林，
// 提供深度、最近公共祖先与 Wu-Palmer 相似度查询。
//
// 类目图在进程启动时构建一次，之后只读共享；所有策略通过 core.Taxonomy
// 接口使用同一个实例。
package taxonomy

import (
	"fmt"

	"github.com/shoply/mallkit/core"
)

// Edge 是一条类目边：Parent 是 Child 的上级类目。
type Edge struct {
	Parent string
	Child  string
}

// Taxonomy 是只读类目图。必须满足树性质：任一节点至多一个父节点、无环。
// 允许多棵树并存（森林）；分属不同树的节点没有公共祖先，相似度为 0。
type Taxonomy struct {
	parent map[string]string   // child -> parent；根节点不出现在 key 中
	depth  map[string]int      // node -> 到树根的边数（根为 0）
	nodes  map[string]struct{} // 所有出现过的节点
}

var _ core.Taxonomy = (*Taxonomy)(nil)

// New 从边表构建类目图。
// 以下输入视为配置错误，返回 INVALID_INPUT 级 DomainError：
//   - 空的 parent/child 标签
//   - 同一 child 出现两个不同 parent
//   - 边引入环
func New(edges []Edge) (*Taxonomy, error) {
	t := &Taxonomy{
		parent: make(map[string]string, len(edges)),
		depth:  make(map[string]int, len(edges)*2),
		nodes:  make(map[string]struct{}, len(edges)*2),
	}

	for _, e := range edges {
		if e.Parent == "" || e.Child == "" {
			return nil, core.NewDomainError(core.ModuleTaxonomy, core.ErrorCodeInvalidInput,
				fmt.Sprintf("taxonomy: empty label in edge (%q -> %q)", e.Parent, e.Child))
		}
		if old, ok := t.parent[e.Child]; ok && old != e.Parent {
			return nil, core.NewDomainError(core.ModuleTaxonomy, core.ErrorCodeInvalidInput,
				fmt.Sprintf("taxonomy: node %q has multiple parents (%q, %q)", e.Child, old, e.Parent))
		}
		t.parent[e.Child] = e.Parent
		t.nodes[e.Parent] = struct{}{}
		t.nodes[e.Child] = struct{}{}
	}

	// 预计算深度，顺带检出环：祖先链长度不可能超过节点总数
	limit := len(t.nodes)
	for node := range t.nodes {
		if _, err := t.resolveDepth(node, limit); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Taxonomy) resolveDepth(node string, limit int) (int, error) {
	if d, ok := t.depth[node]; ok {
		return d, nil
	}

	chain := make([]string, 0, 8)
	cur := node
	for {
		if d, ok := t.depth[cur]; ok {
			return t.fillChain(chain, d), nil
		}
		chain = append(chain, cur)
		if len(chain) > limit {
			return 0, core.NewDomainError(core.ModuleTaxonomy, core.ErrorCodeInvalidInput,
				fmt.Sprintf("taxonomy: cycle detected at node %q", node))
		}
		p, ok := t.parent[cur]
		if !ok {
			// cur 是树根
			return t.fillChain(chain, -1), nil
		}
		cur = p
	}
}

// fillChain 自底向上回填深度。base 是链尾之下已知节点的深度（链尾即根时为 -1）。
func (t *Taxonomy) fillChain(chain []string, base int) int {
	for i := len(chain) - 1; i >= 0; i-- {
		base++
		t.depth[chain[i]] = base
	}
	return t.depth[chain[0]]
}

// Has 判断节点是否在图中。
func (t *Taxonomy) Has(node string) bool {
	_, ok := t.nodes[node]
	return ok
}

// Depth 返回节点到树根的边数；未知节点返回 -1。
func (t *Taxonomy) Depth(node string) int {
	if d, ok := t.depth[node]; ok {
		return d
	}
	return -1
}

// LowestCommonAncestor 返回 a、b 的最近公共祖先。
// 任一节点未知、或两节点分属不同树时 ok 为 false。
func (t *Taxonomy) LowestCommonAncestor(a, b string) (string, bool) {
	if !t.Has(a) || !t.Has(b) {
		return "", false
	}

	ancestors := make(map[string]struct{})
	for cur := a; ; {
		ancestors[cur] = struct{}{}
		p, ok := t.parent[cur]
		if !ok {
			break
		}
		cur = p
	}

	for cur := b; ; {
		if _, ok := ancestors[cur]; ok {
			return cur, true
		}
		p, ok := t.parent[cur]
		if !ok {
			return "", false
		}
		cur = p
	}
}

// Similarity 计算两个类目节点的 Wu-Palmer 相似度：
// 2*depth(lca) / (depth(a)+depth(b))，取值 [0, 1]。
// 相同且在图中为 1.0；任一节点不在图中为 0.0（不给部分分）。
func (t *Taxonomy) Similarity(a, b string) float64 {
	if !t.Has(a) || !t.Has(b) {
		return 0
	}
	if a == b {
		return 1
	}

	lca, ok := t.LowestCommonAncestor(a, b)
	if !ok {
		return 0
	}

	da, db := t.depth[a], t.depth[b]
	if da+db == 0 {
		return 0
	}
	return 2 * float64(t.depth[lca]) / float64(da+db)
}

// PathSimilarity 比较两条完整类目路径（根到叶的标签序列）：
// 对两条路径的节点两两求 Similarity，取最大值。
// 单个强相关的类目对即可把商品带进候选。任一路径为空返回 0。
func (t *Taxonomy) PathSimilarity(pathA, pathB []string) float64 {
	var best float64
	for _, a := range pathA {
		for _, b := range pathB {
			if sim := t.Similarity(a, b); sim > best {
				best = sim
			}
		}
	}
	return best
}
