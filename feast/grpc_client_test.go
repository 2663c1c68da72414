package feast

import (
	"context"
	"testing"
)

// TestGrpcClient_GetOnlineFeatures 需要连接真实的 Feast 服务器才能运行
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	ctx := context.Background()

	client, err := NewGrpcClient("localhost", 6565, "mallkit")
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer client.Close()

	resp, err := client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features: []string{
			"item_stats:embedding",
			"item_stats:order_count",
		},
		EntityRows: []map[string]interface{}{
			{"item_id": "8001"},
			{"item_id": "8002"},
		},
	})
	if err != nil {
		t.Fatalf("获取特征失败: %v", err)
	}

	if len(resp.FeatureVectors) != 2 {
		t.Errorf("期望 2 个特征向量，实际得到 %d 个", len(resp.FeatureVectors))
	}
}

func TestToSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"string", "8001"},
		{"int", 100},
		{"int64", int64(100)},
		{"float64", 3.14},
		{"bool", true},
		{"bytes", []byte("8001")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if toSDKValue(tt.input) == nil {
				t.Errorf("转换结果不应该为 nil")
			}
		})
	}
}

func TestFromSDKValue(t *testing.T) {
	if got := fromSDKValue(nil); got != nil {
		t.Errorf("nil 输入应该返回 nil，实际得到 %v", got)
	}

	if got := fromSDKValue(toSDKValue("abc")); got != "abc" {
		t.Errorf("string 往返失败: %v", got)
	}
	if got := fromSDKValue(toSDKValue(int64(7))); got != float64(7) {
		t.Errorf("int64 应该转为 float64(7)，实际得到 %v", got)
	}
	if got := fromSDKValue(toSDKValue(0.5)); got != 0.5 {
		t.Errorf("float64 往返失败: %v", got)
	}
	if got := fromSDKValue(toSDKValue(true)); got != true {
		t.Errorf("bool 往返失败: %v", got)
	}
}
