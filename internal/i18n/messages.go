package i18n

type entry struct {
	id string
	en string
}

// Claves de mensajes que la API devuelve en el campo "error" / "message"
const (
	MsgInvalidRequest      = "invalid_request"
	MsgValidationFailed    = "validation_failed"
	MsgNotFound            = "not_found"
	MsgInvalidID           = "invalid_id"
	MsgUnauthorized        = "unauthorized"
	MsgForbidden           = "forbidden"
	MsgConflict            = "conflict"
	MsgInsufficientStock   = "insufficient_stock"
	MsgInvalidTransition   = "invalid_transition"
	MsgEmptyCart           = "empty_cart"
	MsgInvalidCredentials  = "invalid_credentials"
	MsgProductUnavailable  = "product_unavailable"
	MsgInternal            = "internal_error"
	MsgProductCreated      = "product_created"
	MsgProductUpdated      = "product_updated"
	MsgProductDeleted      = "product_deleted"
	MsgCartUpdated         = "cart_updated"
	MsgCartCleared         = "cart_cleared"
	MsgOrderPlaced         = "order_placed"
	MsgOrderCancelled      = "order_cancelled"
	MsgOrderStatusUpdated  = "order_status_updated"
	MsgRatingSaved         = "rating_saved"
	MsgStockUpdated        = "stock_updated"
	MsgMaterialRecorded    = "material_recorded"
	MsgMaterialDeleted     = "material_deleted"
	MsgMaterialsReconciled = "materials_reconciled"
	MsgLoggedOut           = "logged_out"
	MsgPasswordChanged     = "password_changed"
	MsgProfileUpdated      = "profile_updated"
	MsgRoleUpdated         = "role_updated"
)

var catalogEntries = map[string]entry{
	MsgInvalidRequest:      {"Permintaan tidak valid", "Invalid request"},
	MsgValidationFailed:    {"Data tidak valid: %s", "Invalid data: %s"},
	MsgNotFound:            {"Data tidak ditemukan", "Not found"},
	MsgInvalidID:           {"ID tidak valid", "Invalid ID"},
	MsgUnauthorized:        {"Silakan masuk terlebih dahulu", "Please sign in first"},
	MsgForbidden:           {"Anda tidak memiliki akses", "You do not have access"},
	MsgConflict:            {"Data sudah ada", "Already exists"},
	MsgInsufficientStock:   {"Stok tidak mencukupi", "Insufficient stock"},
	MsgInvalidTransition:   {"Perubahan status pesanan tidak diizinkan", "Order status change not allowed"},
	MsgEmptyCart:           {"Keranjang belanja kosong", "Your cart is empty"},
	MsgInvalidCredentials:  {"Email atau kata sandi salah", "Wrong email or password"},
	MsgProductUnavailable:  {"Produk tidak tersedia", "Product is unavailable"},
	MsgInternal:            {"Terjadi kesalahan, coba lagi nanti", "Something went wrong, please try again later"},
	MsgProductCreated:      {"Produk berhasil ditambahkan", "Product created"},
	MsgProductUpdated:      {"Produk berhasil diperbarui", "Product updated"},
	MsgProductDeleted:      {"Produk berhasil dihapus", "Product deleted"},
	MsgCartUpdated:         {"Keranjang diperbarui", "Cart updated"},
	MsgCartCleared:         {"Keranjang dikosongkan", "Cart cleared"},
	MsgOrderPlaced:         {"Pesanan %s berhasil dibuat", "Order %s placed"},
	MsgOrderCancelled:      {"Pesanan dibatalkan", "Order cancelled"},
	MsgOrderStatusUpdated:  {"Status pesanan diperbarui", "Order status updated"},
	MsgRatingSaved:         {"Terima kasih atas penilaian Anda", "Thanks for your rating"},
	MsgStockUpdated:        {"Stok diperbarui", "Stock updated"},
	MsgMaterialRecorded:    {"Bahan baku dicatat", "Material recorded"},
	MsgMaterialDeleted:     {"Catatan bahan baku dihapus", "Material record deleted"},
	MsgMaterialsReconciled: {"Stok bahan baku diperbarui", "Material stock reconciled"},
	MsgLoggedOut:           {"Anda telah keluar", "You have signed out"},
	MsgPasswordChanged:     {"Kata sandi diubah", "Password changed"},
	MsgProfileUpdated:      {"Profil diperbarui", "Profile updated"},
	MsgRoleUpdated:         {"Peran pengguna diperbarui", "User role updated"},
}
