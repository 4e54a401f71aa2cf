package database

// Bootstrap schema, applied statement by statement at startup. Money
// columns are DECIMAL(12,2); all arithmetic happens in the application
// with the same precision.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		phone_number VARCHAR(32) NOT NULL UNIQUE,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(128) NOT NULL,
		token VARCHAR(64) NOT NULL DEFAULT '',
		balance DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		referral_code VARCHAR(16) DEFAULT NULL,
		referred_by BIGINT NOT NULL DEFAULT 0,
		is_investor TINYINT(1) NOT NULL DEFAULT 0,
		is_subscribed TINYINT(1) NOT NULL DEFAULT 0,
		is_staff TINYINT(1) NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		telegram_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_referral_code (referral_code),
		KEY idx_token (token)
	)`,
	`CREATE TABLE IF NOT EXISTS topups (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		ref VARCHAR(36) NOT NULL UNIQUE,
		account_id BIGINT NOT NULL,
		amount DECIMAL(12,2) NOT NULL,
		cashback DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		promo_id BIGINT NOT NULL DEFAULT 0,
		promo_code VARCHAR(64) NOT NULL DEFAULT '',
		promo_bonus DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		receipt VARCHAR(512) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		activated_at TIMESTAMP NULL DEFAULT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_topups_account (account_id),
		KEY idx_topups_status (status),
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	)`,
	`CREATE TABLE IF NOT EXISTS promo_codes (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(64) NOT NULL UNIQUE,
		percent INT NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS promo_usages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT NOT NULL,
		promo_id BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_account_promo (account_id, promo_id),
		FOREIGN KEY (account_id) REFERENCES accounts(id),
		FOREIGN KEY (promo_id) REFERENCES promo_codes(id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT NOT NULL,
		kind VARCHAR(16) NOT NULL DEFAULT 'info',
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_notifications_account (account_id),
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	)`,
	`CREATE TABLE IF NOT EXISTS idea_configs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		industry VARCHAR(200) NOT NULL,
		investment VARCHAR(200) NOT NULL,
		idea_topic VARCHAR(255) NOT NULL DEFAULT '',
		brief_info TEXT,
		complexity VARCHAR(100) NOT NULL DEFAULT '',
		business_model TEXT,
		is_golden_ticket TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_configs_owner (owner_id),
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		config_id BIGINT NOT NULL DEFAULT 0,
		project_name VARCHAR(255) NOT NULL,
		description TEXT,
		data MEDIUMTEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_projects_owner (owner_id),
		FOREIGN KEY (owner_id) REFERENCES accounts(id)
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		project_id BIGINT NOT NULL UNIQUE,
		funding_sought DECIMAL(14,2) NOT NULL,
		equity_offered DECIMAL(5,2) NOT NULL,
		pitch TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id)
	)`,
}
