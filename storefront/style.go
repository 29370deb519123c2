package storefront

const stylesheet = `
.site-header { display: flex; justify-content: space-between; align-items: center; padding: 16px 24px; }
.cart-count { cursor: pointer; }
.cart-badge { background: #5c4185; color: white; border-radius: 10px; padding: 2px 8px; }
.product-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 24px; padding: 24px; }
.product-card img { width: 100%; border-radius: 5px; }
.add-to-cart { background: #c7a884; color: white; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer; }
.cart-notification { position: fixed; top: 100px; right: 20px; background: #5c4185; color: white; padding: 15px 20px; border-radius: 5px; z-index: 10000; box-shadow: 0 4px 12px rgba(0,0,0,0.3); animation: slideIn 0.3s ease-out; }
.cart-notification[data-state="leaving"] { animation: slideOut 0.3s ease-in; }
.cart-modal { position: fixed; top: 0; left: 0; width: 100%; height: 100%; background: rgba(0,0,0,0.5); z-index: 10000; display: flex; justify-content: center; align-items: center; }
.cart-content { background: white; padding: 30px; border-radius: 10px; max-width: 500px; width: 90%; max-height: 80vh; overflow-y: auto; position: relative; }
.cart-close { position: absolute; top: 15px; right: 15px; background: none; border: none; font-size: 24px; cursor: pointer; color: #666; }
.cart-title { color: #5c4185; margin-bottom: 20px; }
.cart-item { display: flex; align-items: center; padding: 15px 0; border-bottom: 1px solid #eee; }
.cart-item-image { width: 60px; height: 60px; object-fit: cover; border-radius: 5px; margin-right: 15px; }
.cart-item-info { flex-grow: 1; }
.cart-item-actions { text-align: right; }
.cart-item-subtotal { font-weight: bold; }
.cart-decrement, .cart-increment { background: #f0f0f0; border: none; padding: 5px 10px; border-radius: 3px; cursor: pointer; }
.cart-quantity { margin: 0 10px; }
.cart-total { margin-top: 20px; padding-top: 20px; border-top: 2px solid #eee; }
.cart-total-line { display: flex; justify-content: space-between; font-size: 1.2em; font-weight: bold; }
.cart-checkout { background: #c7a884; color: white; border: none; padding: 12px 30px; border-radius: 5px; font-size: 1.1em; cursor: pointer; width: 100%; margin-top: 20px; }
@keyframes slideIn { from { transform: translateX(100%); opacity: 0; } to { transform: translateX(0); opacity: 1; } }
@keyframes slideOut { from { transform: translateX(0); opacity: 1; } to { transform: translateX(100%); opacity: 0; } }
`
