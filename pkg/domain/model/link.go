package model

// Category 表示一个链接分类。
// ID 是对外暴露的不透明字符串标识，由具体存储后端在创建时生成，之后不可变。
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// LinkItem 表示一条链接记录。
// CategoryID 是指向 Category.ID 的软外键，存储层不做引用完整性校验，
// 只在删除分类时级联清理。
type LinkItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId"`
	Icon        string `json:"icon,omitempty"`
	IconSource  string `json:"iconSource,omitempty"`
}

// CreateCategoryRequest 创建分类的请求体。
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// UpdateCategoryRequest 更新分类的请求体。
// 更新是整条覆盖：除 ID 外的所有字段都会被这里的值替换。
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CreateLinkRequest 创建链接的请求体。
// URL 的合法性只在这一层（HTTP 绑定）校验，存储层按原样持久化。
type CreateLinkRequest struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId" binding:"required"`
	Icon        string `json:"icon"`
	IconSource  string `json:"iconSource"`
}

// UpdateLinkRequest 更新链接的请求体，语义同 UpdateCategoryRequest。
type UpdateLinkRequest struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId" binding:"required"`
	Icon        string `json:"icon"`
	IconSource  string `json:"iconSource"`
}

// CategoryWithLinks 是前台目录页的组合结构：一个分类和它名下的全部链接。
type CategoryWithLinks struct {
	Category
	Links []*LinkItem `json:"links"`
}
