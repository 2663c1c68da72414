// Package vecmath 提供描述向量（embedding）的相似度计算。
// 向量由上游模型产出并随商品档案加载，这里只做消费，不做归一化或降维。
package vecmath

import "math"

// Cosine 计算两个等维稠密向量的余弦相似度：dot(u,v) / (|u|*|v|)。
//
// 缺失处理：任一向量为空、维度不一致、或任一范数为 0 时返回 0.0，
// 调用方据此把"无 embedding"的商品的描述相似度记为 0，而不是报错。
// 浮点误差可能使结果略微越界，统一收敛到 [-1, 1]。
func Cosine(u, v []float64) float64 {
	if len(u) == 0 || len(v) == 0 || len(u) != len(v) {
		return 0
	}

	var dot, normU, normV float64
	for i := range u {
		dot += u[i] * v[i]
		normU += u[i] * u[i]
		normV += v[i] * v[i]
	}
	if normU == 0 || normV == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normU) * math.Sqrt(normV))
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
