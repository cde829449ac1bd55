// linkhub-app/pkg/idgen/idgen_test.go
package idgen

import (
	"testing"
)

// TestPublicIDRoundTrip 测试公共 ID 的编码解码往返
func TestPublicIDRoundTrip(t *testing.T) {
	if err := InitSqidsEncoder(); err != nil {
		t.Fatalf("初始化编码器失败: %v", err)
	}

	tests := []struct {
		name       string
		dbID       uint
		entityType uint64
	}{
		{name: "category id 1", dbID: 1, entityType: EntityTypeCategory},
		{name: "link id 1", dbID: 1, entityType: EntityTypeLink},
		{name: "large id", dbID: 987654321, entityType: EntityTypeLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publicID, err := GeneratePublicID(tt.dbID, tt.entityType)
			if err != nil {
				t.Fatalf("编码失败: %v", err)
			}
			if len(publicID) < 4 {
				t.Errorf("公共 ID 长度不足: %q", publicID)
			}

			dbID, entityType, err := DecodePublicID(publicID)
			if err != nil {
				t.Fatalf("解码失败: %v", err)
			}
			if dbID != tt.dbID || entityType != tt.entityType {
				t.Errorf("往返结果不一致: got (%d, %d), want (%d, %d)",
					dbID, entityType, tt.dbID, tt.entityType)
			}
		})
	}
}

// TestPublicIDDistinctAcrossEntityTypes 同一行号在不同实体类型下生成不同的公共 ID
func TestPublicIDDistinctAcrossEntityTypes(t *testing.T) {
	if err := InitSqidsEncoder(); err != nil {
		t.Fatalf("初始化编码器失败: %v", err)
	}

	catID, err := GeneratePublicID(7, EntityTypeCategory)
	if err != nil {
		t.Fatalf("编码分类 ID 失败: %v", err)
	}
	linkID, err := GeneratePublicID(7, EntityTypeLink)
	if err != nil {
		t.Fatalf("编码链接 ID 失败: %v", err)
	}
	if catID == linkID {
		t.Errorf("不同实体类型生成了相同的公共 ID: %q", catID)
	}
}

// TestDecodeGarbage 解码无效字符串应当报错
func TestDecodeGarbage(t *testing.T) {
	if err := InitSqidsEncoder(); err != nil {
		t.Fatalf("初始化编码器失败: %v", err)
	}

	if _, _, err := DecodePublicID("!!not-a-valid-id!!"); err == nil {
		t.Error("解码无效公共 ID 应当返回错误")
	}
}

// TestGenerateBeforeInit 编码器未初始化时应当报错
func TestGenerateBeforeInit(t *testing.T) {
	saved := sqidsEncoder
	sqidsEncoder = nil
	defer func() { sqidsEncoder = saved }()

	if _, err := GeneratePublicID(1, EntityTypeCategory); err == nil {
		t.Error("编码器未初始化时 GeneratePublicID 应当返回错误")
	}
	if _, _, err := DecodePublicID("abcd"); err == nil {
		t.Error("编码器未初始化时 DecodePublicID 应当返回错误")
	}
}
