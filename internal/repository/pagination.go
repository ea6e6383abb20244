package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，防止后台一次拉取全部订单
const maxPageSize = 100

// paginate 按页码截取结果；pageSize 非正时返回全部
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
