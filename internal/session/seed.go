package session

import "github.com/sprite-ai/codepad/internal/model"

// SeedFiles returns the sample files a fresh session starts with.
func SeedFiles() []model.File {
	return []model.File{
		{
			ID:       "1",
			Name:     "main.tsx",
			Language: "typescript",
			Path:     "src/main.tsx",
			Content: `import { StrictMode } from 'react';
import { createRoot } from 'react-dom/client';
import App from './App.tsx';
import './index.css';

createRoot(document.getElementById('root')!).render(
  <StrictMode>
    <App />
  </StrictMode>
);`,
		},
		{
			ID:       "2",
			Name:     "App.tsx",
			Language: "typescript",
			Path:     "src/App.tsx",
			Content: `import React from 'react';
import { BrowserRouter } from 'react-router-dom';
import AppRoutes from './routes';

function App() {
  return (
    <BrowserRouter>
      <AppRoutes />
    </BrowserRouter>
  );
}

export default App;`,
		},
		{
			ID:       "3",
			Name:     "index.css",
			Language: "css",
			Path:     "src/index.css",
			Content: `body {
  font-family: 'Inter', sans-serif;
}

code {
  font-family: 'JetBrains Mono', monospace;
}`,
		},
	}
}
